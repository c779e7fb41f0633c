package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const openAIChatDefaultModel = "gpt-3.5-turbo"

// ChatConfig holds configuration for the OpenAI chat client.
type ChatConfig struct {
	APIKey     string
	BaseURL    string        // Optional (tests)
	Timeout    time.Duration // HTTP timeout, zero for none
	MaxRetries int           // Retry attempts for SDK transport
	HTTPClient *http.Client  // Optional (tests)
}

// ChatClient sends chat completions using the official OpenAI SDK.
type ChatClient struct {
	client openai.Client
}

// ChatRequest is a single system+user exchange.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSONObject  bool // Ask for the json_object response format
}

// ChatResult is the first choice of a completion plus usage.
type ChatResult struct {
	ID               string
	Model            string
	Content          string
	FinishReason     string
	PromptTokens     int64
	CompletionTokens int64
	ExecutionTime    time.Duration
}

// NewChatClient creates a new OpenAI chat client.
func NewChatClient(cfg ChatConfig) *ChatClient {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ChatClient{client: openai.NewClient(opts...)}
}

// Complete sends the request and returns the first choice.
func (c *ChatClient) Complete(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	start := time.Now()

	if strings.TrimSpace(req.User) == "" {
		return nil, fmt.Errorf("user message is required")
	}
	model := req.Model
	if model == "" {
		model = openAIChatDefaultModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONObject {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProtocolError{Op: OpChat, Message: "response has no choices", Body: resp.RawJSON()}
	}

	choice := resp.Choices[0]
	return &ChatResult{
		ID:               resp.ID,
		Model:            resp.Model,
		Content:          choice.Message.Content,
		FinishReason:     choice.FinishReason,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		ExecutionTime:    time.Since(start),
	}, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.RawJSON()
		if body == "" {
			body = apiErr.Message
		}
		return &APIError{Op: OpChat, StatusCode: apiErr.StatusCode, Body: body}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &RequestError{Op: OpChat, Err: err}
}
