// Package invoice holds the prompts and output schema for invoice extraction.
package invoice

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for invoice extraction.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// UserPrompt builds the user prompt for the given invoice text.
func UserPrompt(invoiceText string) string {
	var buf bytes.Buffer
	data := struct{ InvoiceText string }{InvoiceText: invoiceText}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
