package providers

import (
	"bytes"
	"context"
	"net/http"
)

// CreateResponse posts a serialized request body to POST /responses and
// returns the raw response body. Decoding is left to the caller so the raw
// document is available for diagnostics.
func (c *Client) CreateResponse(ctx context.Context, body []byte) ([]byte, error) {
	return c.do(ctx, OpResponses, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}
