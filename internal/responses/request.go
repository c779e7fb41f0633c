// Package responses models the OpenAI Responses API request and response
// envelope used for document extraction, and pulls the embedded JSON payload
// out of a completed response.
package responses

import (
	"encoding/json"
	"fmt"
)

// Content part and format type tags used in requests.
const (
	RoleUser = "user"

	PartInputFile = "input_file"
	PartInputText = "input_text"

	FormatJSONObject = "json_object"
)

// Request is the body of POST /responses.
type Request struct {
	Model string         `json:"model"`
	Input []InputMessage `json:"input"`
	Text  TextOptions    `json:"text"`
}

// InputMessage is one message in the request input list.
type InputMessage struct {
	Role    string      `json:"role"`
	Content []InputPart `json:"content"`
}

// InputPart is a typed content part: a file reference or a text instruction.
type InputPart struct {
	Type   string `json:"type"`
	FileID string `json:"file_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

// TextOptions configures the textual output of the model.
type TextOptions struct {
	Format TextFormat `json:"format"`
}

// TextFormat is the output format directive.
type TextFormat struct {
	Type string `json:"type"`
}

// BuildRequest assembles a request asking the model to read the uploaded file
// and answer with a JSON object.
func BuildRequest(model, fileID, instruction string) Request {
	return Request{
		Model: model,
		Input: []InputMessage{
			{
				Role: RoleUser,
				Content: []InputPart{
					{Type: PartInputFile, FileID: fileID},
					{Type: PartInputText, Text: instruction},
				},
			},
		},
		Text: TextOptions{
			Format: TextFormat{Type: FormatJSONObject},
		},
	}
}

// Marshal serializes the request body.
func (r Request) Marshal() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses request: %w", err)
	}
	return b, nil
}
