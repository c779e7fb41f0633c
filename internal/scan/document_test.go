package scan

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jackzampolin/pdfextract/internal/providers"
)

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nnot really a pdf\n%%EOF"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

// fakeAPI serves /files and /responses. The completion handler is swappable.
type fakeAPI struct {
	uploads     atomic.Int32
	completions atomic.Int32
	lastRequest map[string]any
	completion  http.HandlerFunc
	upload      http.HandlerFunc
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files":
			f.uploads.Add(1)
			if f.upload != nil {
				f.upload(w, r)
				return
			}
			_, _ = w.Write([]byte(`{"id":"file-abc"}`))
		case "/responses":
			f.completions.Add(1)
			body, _ := io.ReadAll(r.Body)
			f.lastRequest = map[string]any{}
			_ = json.Unmarshal(body, &f.lastRequest)
			f.completion(w, r)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newDocumentScanner(url string) *DocumentScanner {
	client := providers.NewClient(providers.Config{APIKey: "test-key", BaseURL: url})
	return NewDocumentScanner(DocumentConfig{
		Files:       client,
		Responses:   client,
		Model:       "gpt-4o-mini",
		Instruction: "Extract everything as JSON.",
	})
}

func TestDocumentScanner_Scan(t *testing.T) {
	t.Run("text payload end to end", func(t *testing.T) {
		api := &fakeAPI{completion: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"output_text","text":"{\"a\":1}"}]}]}`))
		}}
		srv := api.server(t)

		got, err := newDocumentScanner(srv.URL).Scan(context.Background(), writePDF(t))
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if got != `{"a":1}` {
			t.Fatalf("Scan() = %q, want {\"a\":1}", got)
		}

		input, _ := api.lastRequest["input"].([]any)
		if len(input) != 1 {
			t.Fatalf("unexpected input: %v", api.lastRequest["input"])
		}
		content, _ := input[0].(map[string]any)["content"].([]any)
		filePart, _ := content[0].(map[string]any)
		if filePart["file_id"] != "file-abc" {
			t.Fatalf("expected file_id file-abc, got %v", filePart["file_id"])
		}
		text, _ := api.lastRequest["text"].(map[string]any)
		format, _ := text["format"].(map[string]any)
		if format["type"] != "json_object" {
			t.Fatalf("expected json_object format, got %v", api.lastRequest["text"])
		}
	})

	t.Run("upload failure skips completion", func(t *testing.T) {
		api := &fakeAPI{
			upload: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
			},
			completion: func(w http.ResponseWriter, r *http.Request) {},
		}
		srv := api.server(t)

		_, err := newDocumentScanner(srv.URL).Scan(context.Background(), writePDF(t))
		if StageOf(err) != StageUpload {
			t.Fatalf("expected upload stage, got %q (%v)", StageOf(err), err)
		}
		if api.completions.Load() != 0 {
			t.Fatal("completion should not be attempted after upload failure")
		}
	})

	t.Run("completion failure", func(t *testing.T) {
		api := &fakeAPI{completion: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway"))
		}}
		srv := api.server(t)

		_, err := newDocumentScanner(srv.URL).Scan(context.Background(), writePDF(t))
		if StageOf(err) != StageCompletion {
			t.Fatalf("expected completion stage, got %q (%v)", StageOf(err), err)
		}
		if !providers.IsHTTPFailure(err, providers.OpResponses) {
			t.Fatalf("expected responses http failure, got %v", err)
		}
		if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "bad gateway") {
			t.Fatalf("error should carry status and body: %v", err)
		}
	})

	t.Run("no payload reports raw response", func(t *testing.T) {
		const raw = `{"output":[{"content":[{"type":"output_text","text":"sorry, no"}]}]}`
		api := &fakeAPI{completion: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(raw))
		}}
		srv := api.server(t)

		_, err := newDocumentScanner(srv.URL).Scan(context.Background(), writePDF(t))
		if StageOf(err) != StageExtract {
			t.Fatalf("expected extract stage, got %q (%v)", StageOf(err), err)
		}
		if !strings.Contains(err.Error(), raw) {
			t.Fatalf("error should include raw response: %v", err)
		}
	})

	t.Run("unknown content tag", func(t *testing.T) {
		api := &fakeAPI{completion: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"output_image"}]}]}`))
		}}
		srv := api.server(t)

		_, err := newDocumentScanner(srv.URL).Scan(context.Background(), writePDF(t))
		if StageOf(err) != StageExtract {
			t.Fatalf("expected extract stage, got %q (%v)", StageOf(err), err)
		}
	})

	t.Run("missing file never hits the network", func(t *testing.T) {
		api := &fakeAPI{completion: func(w http.ResponseWriter, r *http.Request) {}}
		srv := api.server(t)

		_, err := newDocumentScanner(srv.URL).Scan(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
		if StageOf(err) != StageRead {
			t.Fatalf("expected read stage, got %q (%v)", StageOf(err), err)
		}
		if api.uploads.Load() != 0 {
			t.Fatal("upload should not be attempted for a missing file")
		}
	})
}
