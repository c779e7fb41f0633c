// Package output renders extracted JSON documents for the CLI.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format defines the rendering of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (want json or yaml)", s)
	}
}

// Options controls how a document is rendered.
type Options struct {
	Format Format
	Pretty bool // Indent JSON with two spaces
}

// Render converts a JSON document to its final bytes, newline terminated.
// Key order and non-ASCII text are kept as the model produced them.
func Render(doc []byte, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON, "":
		var buf bytes.Buffer
		var err error
		if opts.Pretty {
			err = json.Indent(&buf, doc, "", "  ")
		} else {
			err = json.Compact(&buf, doc)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid JSON document: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatYAML:
		return toYAML(doc)
	default:
		return nil, fmt.Errorf("unknown output format: %s", opts.Format)
	}
}

// toYAML re-encodes JSON as block-style YAML. JSON is valid YAML, so decoding
// into a yaml.Node keeps mapping order.
func toYAML(doc []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(doc, &node); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	clearStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// clearStyle drops the flow and quoting styles inherited from JSON syntax.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

// Write renders doc to w.
func Write(w io.Writer, doc []byte, opts Options) error {
	data, err := Render(doc, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders doc into the file at path, replacing it.
func WriteFile(path string, doc []byte, opts Options) error {
	data, err := Render(doc, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
