package responses

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestExtractRaw(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "text payload returned unmodified",
			body:   `{"output":[{"content":[{"type":"output_text","text":"{\"a\":1}"}]}]}`,
			want:   `{"a":1}`,
			wantOK: true,
		},
		{
			name:   "text payload keeps original spacing",
			body:   `{"output":[{"content":[{"type":"output_text","text":"{ \"b\" : [1, 2] }"}]}]}`,
			want:   `{ "b" : [1, 2] }`,
			wantOK: true,
		},
		{
			name:   "empty output list",
			body:   `{"output":[]}`,
			wantOK: false,
		},
		{
			name:   "missing output list",
			body:   `{"id":"resp_1"}`,
			wantOK: false,
		},
		{
			name:   "first item without content",
			body:   `{"output":[{"type":"reasoning"},{"content":[{"type":"output_text","text":"{}"}]}]}`,
			wantOK: false,
		},
		{
			name:   "invalid text and no structured part",
			body:   `{"output":[{"content":[{"type":"output_text","text":"not json"}]}]}`,
			wantOK: false,
		},
		{
			name:   "first valid text wins over later text",
			body:   `{"output":[{"content":[{"type":"output_text","text":"nope"},{"type":"output_text","text":"[1]"},{"type":"output_text","text":"[2]"}]}]}`,
			want:   `[1]`,
			wantOK: true,
		},
		{
			name:   "valid text wins over earlier structured part",
			body:   `{"output":[{"content":[{"type":"output_json","json":{"x":1}},{"type":"output_text","text":"{\"y\":2}"}]}]}`,
			want:   `{"y":2}`,
			wantOK: true,
		},
		{
			name:   "refusal only",
			body:   `{"output":[{"content":[{"type":"refusal","refusal":"cannot help"}]}]}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ExtractRaw([]byte(tt.body))
			if err != nil {
				t.Fatalf("ExtractRaw() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ExtractRaw() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("ExtractRaw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractStructuredFallback(t *testing.T) {
	body := `{"output":[{"content":[
		{"type":"output_text","text":"oops {"},
		{"type":"output_json","json":{"invoice":{"total":12.5,"items":["a","b"]}}}
	]}]}`

	got, ok, err := ExtractRaw([]byte(body))
	if err != nil {
		t.Fatalf("ExtractRaw() error = %v", err)
	}
	if !ok {
		t.Fatal("expected structured payload to be extracted")
	}

	want := "{\n  \"invoice\": {\n    \"items\": [\n      \"a\",\n      \"b\"\n    ],\n    \"total\": 12.5\n  }\n}"
	if got != want {
		t.Fatalf("unexpected indentation:\n%s", got)
	}

	var gotV, wantV any
	if err := json.Unmarshal([]byte(got), &gotV); err != nil {
		t.Fatalf("extracted payload is not JSON: %v", err)
	}
	_ = json.Unmarshal([]byte(`{"invoice":{"total":12.5,"items":["a","b"]}}`), &wantV)
	if !reflect.DeepEqual(gotV, wantV) {
		t.Fatalf("payload differs: got %v, want %v", gotV, wantV)
	}
}

func TestExtractStructuredKeepsNumberLiterals(t *testing.T) {
	body := `{"output":[{"content":[{"type":"output_json","json":{"id":12345678901234567890,"amt":0.1000000000000000055511151231257827,"n":[1e400,-0]}}]}]}`

	got, ok, err := ExtractRaw([]byte(body))
	if err != nil {
		t.Fatalf("ExtractRaw() error = %v", err)
	}
	if !ok {
		t.Fatal("expected structured payload to be extracted")
	}

	want := "{\n  \"amt\": 0.1000000000000000055511151231257827,\n  \"id\": 12345678901234567890,\n  \"n\": [\n    1e400,\n    -0\n  ]\n}"
	if got != want {
		t.Fatalf("ExtractRaw() = %s, want %s", got, want)
	}
}

func TestExtractUnknownContentType(t *testing.T) {
	body := `{"output":[{"content":[{"type":"output_audio","data":"..."}]}]}`

	_, ok, err := ExtractRaw([]byte(body))
	if err == nil {
		t.Fatal("expected error for unknown content type")
	}
	if ok {
		t.Fatal("expected ok=false")
	}
	var unknown *UnknownContentError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownContentError, got %T: %v", err, err)
	}
	if unknown.Type != "output_audio" {
		t.Fatalf("expected type output_audio, got %q", unknown.Type)
	}
}

func TestExtractIgnoresLaterItems(t *testing.T) {
	// Only the first output item is decoded; an unknown tag further on is never seen.
	body := `{"output":[
		{"content":[{"type":"output_text","text":"{\"ok\":true}"}]},
		{"content":[{"type":"mystery"}]}
	]}`

	got, ok, err := ExtractRaw([]byte(body))
	if err != nil {
		t.Fatalf("ExtractRaw() error = %v", err)
	}
	if !ok || got != `{"ok":true}` {
		t.Fatalf("ExtractRaw() = %q, %v", got, ok)
	}
}

func TestExtractRawInvalidEnvelope(t *testing.T) {
	if _, _, err := ExtractRaw([]byte(`<html>bad gateway</html>`)); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestExtractNilEnvelope(t *testing.T) {
	got, ok, err := Extract(nil)
	if err != nil || ok || got != "" {
		t.Fatalf("Extract(nil) = %q, %v, %v", got, ok, err)
	}
}
