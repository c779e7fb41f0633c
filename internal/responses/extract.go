package responses

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Extract returns the JSON document embedded in the first output item.
//
// Text parts are preferred: the first output_text whose text is valid JSON is
// returned byte-for-byte. Only when no text part qualifies is the first
// output_json part used, re-serialized with two-space indentation and sorted
// keys. Number literals are kept exactly.
// ok is false when the envelope holds no usable payload.
func Extract(env *Envelope) (payload string, ok bool, err error) {
	if env == nil || len(env.Output) == 0 {
		return "", false, nil
	}

	parts, err := env.Output[0].Parts()
	if err != nil {
		return "", false, fmt.Errorf("output[0]: %w", err)
	}
	if len(parts) == 0 {
		return "", false, nil
	}

	for _, p := range parts {
		t, isText := p.(OutputText)
		if !isText {
			continue
		}
		if json.Valid([]byte(t.Text)) {
			return t.Text, true, nil
		}
	}

	for _, p := range parts {
		j, isJSON := p.(OutputJSON)
		if !isJSON || len(j.JSON) == 0 || string(j.JSON) == "null" {
			continue
		}
		// numbers stay json.Number so their literals survive re-serialization
		dec := json.NewDecoder(bytes.NewReader(j.JSON))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			continue
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", false, fmt.Errorf("failed to serialize output_json payload: %w", err)
		}
		return string(out), true, nil
	}

	return "", false, nil
}

// ExtractRaw decodes a raw response body and extracts its payload.
func ExtractRaw(body []byte) (string, bool, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	return Extract(&env)
}
