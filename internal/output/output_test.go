package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	doc := []byte(`{"numero_factura": "007", "total": 121.5, "vendedor": "Café Ñandú"}`)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "compact by default",
			opts: Options{},
			want: "{\"numero_factura\":\"007\",\"total\":121.5,\"vendedor\":\"Café Ñandú\"}\n",
		},
		{
			name: "pretty",
			opts: Options{Format: FormatJSON, Pretty: true},
			want: "{\n  \"numero_factura\": \"007\",\n  \"total\": 121.5,\n  \"vendedor\": \"Café Ñandú\"\n}\n",
		},
		{
			name: "yaml keeps order and quotes ambiguous strings",
			opts: Options{Format: FormatYAML},
			want: "numero_factura: \"007\"\ntotal: 121.5\nvendedor: Café Ñandú\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(doc, tt.opts)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_InvalidJSON(t *testing.T) {
	if _, err := Render([]byte(`{"a":`), Options{}); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWriteAndWriteFile(t *testing.T) {
	doc := []byte(`{"a": 1}`)

	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != "{\"a\":1}\n" {
		t.Fatalf("Write() = %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFile(path, doc, Options{Pretty: true}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("file content = %q", data)
	}
}
