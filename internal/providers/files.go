package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// PurposeUserData marks files uploaded as model input.
const PurposeUserData = "user_data"

// File is the object returned by POST /files.
type File struct {
	ID       string `json:"id"`
	Object   string `json:"object,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
	Filename string `json:"filename,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
}

// UploadFile sends the file at path to the Files API as multipart form data
// and returns the stored file object. The local file is read fully and closed
// before the request is sent.
func (c *Client) UploadFile(ctx context.Context, path, purpose string) (*File, error) {
	if purpose == "" {
		purpose = PurposeUserData
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	filename := filepath.Base(path)

	c.logger.Debug("uploading file", "path", path, "bytes", len(data), "purpose", purpose)

	respBody, err := c.do(ctx, OpUpload, func(ctx context.Context) (*http.Request, error) {
		body, contentType, err := multipartBody(filename, data, purpose)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(respBody, &file); err != nil {
		return nil, &ProtocolError{Op: OpUpload, Message: "response is not JSON", Body: string(respBody)}
	}
	if file.ID == "" {
		return nil, &ProtocolError{Op: OpUpload, Message: "response has no file id", Body: string(respBody)}
	}

	c.logger.Debug("file uploaded", "file_id", file.ID)
	return &file, nil
}

func multipartBody(filename string, data []byte, purpose string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("purpose", purpose); err != nil {
		return nil, "", fmt.Errorf("failed to write purpose field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
