package invoice

var (
	nullableString = map[string]any{"type": []string{"string", "null"}}
	// amounts come back as numbers or as formatted strings ("1.234,56 €")
	amount = map[string]any{"type": []string{"number", "string", "null"}}
	party  = map[string]any{
		"type": []string{"object", "string", "null"},
		"properties": map[string]any{
			"nombre":    nullableString,
			"direccion": nullableString,
			"cif_nif":   nullableString,
		},
	}
	// line items may also come back as plain descriptions
	lineItem = map[string]any{
		"type": []string{"object", "string"},
		"properties": map[string]any{
			"descripción":     nullableString,
			"cantidad":        amount,
			"precio_unitario": amount,
			"total":           amount,
		},
	}
)

// ValidationSchema constrains the shape of the invoice JSON. Every field is
// optional since the prompt only asks for fields that are present, and the
// loosely described ones (fecha, impuestos, notas) accept several shapes.
var ValidationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"numero_factura": map[string]any{"type": []string{"string", "number", "null"}},
		"fecha":          map[string]any{"type": []string{"string", "object", "null"}},
		"vendedor":       party,
		"cliente":        party,
		"items": map[string]any{
			"type":  []string{"array", "null"},
			"items": lineItem,
		},
		"subtotal": amount,
		"impuestos": map[string]any{
			"type": []string{"object", "array", "number", "string", "null"},
		},
		"total":       amount,
		"metodo_pago": nullableString,
		"notas":       map[string]any{"type": []string{"string", "array", "object", "null"}},
	},
}
