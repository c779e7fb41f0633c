// Package providers talks to the OpenAI HTTP API: file upload, the Responses
// endpoint and chat completions.
package providers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds configuration for the OpenAI HTTP client.
type Config struct {
	APIKey     string
	BaseURL    string        // Defaults to DefaultBaseURL
	Timeout    time.Duration // Zero leaves the http.Client without a timeout
	MaxRetries int           // Extra attempts after the first; zero means a single attempt
	RetryDelay time.Duration // Base delay between attempts
	HTTPClient *http.Client  // Optional (tests)
	Logger     *slog.Logger
}

// Client makes raw HTTP calls to the OpenAI API. It is used where the caller
// needs the exact wire body rather than SDK types.
type Client struct {
	apiKey     string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	logger     *slog.Logger
}

// NewClient creates a new OpenAI HTTP client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		client:     httpClient,
		logger:     cfg.Logger,
	}
}

// do sends the request produced by build and returns the raw response body.
// build is called once per attempt so request bodies can be re-read.
func (c *Client) do(ctx context.Context, op string, build func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	requestID := uuid.New().String()
	log := c.logger.With("op", op, "request_id", requestID)

	var body []byte
	err := retry.Do(
		func() error {
			req, err := build(ctx)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create %s request: %w", op, err))
			}
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
			req.Header.Set("X-Client-Request-Id", requestID)

			start := time.Now()
			resp, err := c.client.Do(req)
			if err != nil {
				return &RequestError{Op: op, Err: err}
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return &RequestError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
			}

			log.Debug("api call finished",
				"status", resp.StatusCode,
				"bytes", len(respBody),
				"latency", time.Since(start))

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
			}

			body = respBody
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries+1)),
		retry.Delay(c.retryDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("retrying api call", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}
