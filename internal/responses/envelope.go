package responses

import (
	"encoding/json"
	"fmt"
)

// Content type tags found in response output items.
const (
	ContentOutputText = "output_text"
	ContentOutputJSON = "output_json"
	ContentRefusal    = "refusal"
)

// Envelope is the top-level Responses API document.
type Envelope struct {
	ID     string       `json:"id,omitempty"`
	Model  string       `json:"model,omitempty"`
	Status string       `json:"status,omitempty"`
	Output []OutputItem `json:"output"`
}

// OutputItem is one entry of the output list. Content stays raw until it is
// decoded, so only the items actually inspected need well-formed parts.
type OutputItem struct {
	Type    string          `json:"type,omitempty"`
	ID      string          `json:"id,omitempty"`
	Role    string          `json:"role,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Parts decodes the item's content list into typed parts.
// A missing or null content list returns nil parts and no error.
func (o OutputItem) Parts() ([]Part, error) {
	if len(o.Content) == 0 || string(o.Content) == "null" {
		return nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(o.Content, &raws); err != nil {
		return nil, fmt.Errorf("content is not a list: %w", err)
	}

	parts := make([]Part, 0, len(raws))
	for i, raw := range raws {
		p, err := decodePart(raw)
		if err != nil {
			return nil, fmt.Errorf("content[%d]: %w", i, err)
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// Part is one typed content entry. The concrete type is one of OutputText,
// OutputJSON or Refusal.
type Part interface {
	PartType() string
}

// OutputText carries the model's textual answer. With the json_object format
// the text itself is a JSON document.
type OutputText struct {
	Text string `json:"text"`
}

// OutputJSON carries an already structured JSON payload.
type OutputJSON struct {
	JSON json.RawMessage `json:"json"`
}

// Refusal is returned when the model declines to answer.
type Refusal struct {
	Refusal string `json:"refusal"`
}

func (OutputText) PartType() string { return ContentOutputText }
func (OutputJSON) PartType() string { return ContentOutputJSON }
func (Refusal) PartType() string    { return ContentRefusal }

// UnknownContentError is returned when a content entry carries a type tag
// this package does not model.
type UnknownContentError struct {
	Type string
}

func (e *UnknownContentError) Error() string {
	return fmt.Sprintf("unknown content type %q", e.Type)
}

func decodePart(raw json.RawMessage) (Part, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode content entry: %w", err)
	}

	switch probe.Type {
	case ContentOutputText:
		var p OutputText
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", probe.Type, err)
		}
		return p, nil
	case ContentOutputJSON:
		var p OutputJSON
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", probe.Type, err)
		}
		return p, nil
	case ContentRefusal:
		var p Refusal
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", probe.Type, err)
		}
		return p, nil
	default:
		return nil, &UnknownContentError{Type: probe.Type}
	}
}
