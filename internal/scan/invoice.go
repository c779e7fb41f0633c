package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/pdfextract/internal/pdftext"
	invoiceprompt "github.com/jackzampolin/pdfextract/internal/prompts/invoice"
	"github.com/jackzampolin/pdfextract/internal/providers"
)

// TextExtractor returns the plain text of a local PDF.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// ChatCompleter sends a single chat completion.
type ChatCompleter interface {
	Complete(ctx context.Context, req providers.ChatRequest) (*providers.ChatResult, error)
}

// InvoiceConfig configures an InvoiceScanner.
type InvoiceConfig struct {
	Text        TextExtractor // Defaults to pdftext.Extractor
	Chat        ChatCompleter
	Model       string
	Temperature float64
	MaxTokens   int
	Logger      *slog.Logger
}

// InvoiceScanner extracts invoice text locally and has the model structure it.
type InvoiceScanner struct {
	text        TextExtractor
	chat        ChatCompleter
	model       string
	temperature float64
	maxTokens   int
	schema      *jsonschema.Schema
	logger      *slog.Logger
}

// NewInvoiceScanner creates a new InvoiceScanner.
func NewInvoiceScanner(cfg InvoiceConfig) (*InvoiceScanner, error) {
	if cfg.Text == nil {
		cfg.Text = pdftext.Extractor{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	schema, err := compileSchema("invoice", invoiceprompt.ValidationSchema)
	if err != nil {
		return nil, err
	}

	return &InvoiceScanner{
		text:        cfg.Text,
		chat:        cfg.Chat,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		schema:      schema,
		logger:      cfg.Logger,
	}, nil
}

// Scan returns the invoice at path as compact JSON, keys in model order.
func (s *InvoiceScanner) Scan(ctx context.Context, path string) (json.RawMessage, error) {
	log := s.logger.With("path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, stageErr(StageRead, fmt.Errorf("PDF file not found: %s", path))
	}
	if pages, err := pdftext.PageCount(path); err == nil {
		log.Debug("pdf inspected", "pages", pages)
	}

	log.Info("extracting text from PDF")
	text, err := s.text.Extract(path)
	if err != nil {
		return nil, stageErr(StageRead, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, stageErr(StageRead, fmt.Errorf("no text could be extracted from the PDF file"))
	}

	log.Info("parsing invoice", "model", s.model, "chars", len(text))
	result, err := s.chat.Complete(ctx, providers.ChatRequest{
		Model:       s.model,
		System:      invoiceprompt.SystemPrompt(),
		User:        invoiceprompt.UserPrompt(text),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		JSONObject:  true,
	})
	if err != nil {
		return nil, stageErr(StageCompletion, err)
	}
	log.Debug("invoice completion finished",
		"finish_reason", result.FinishReason,
		"prompt_tokens", result.PromptTokens,
		"completion_tokens", result.CompletionTokens,
		"latency", result.ExecutionTime)

	doc, err := parseJSONPayload(result.Content)
	if err != nil {
		return nil, stageErr(StageExtract, err)
	}
	if err := validateJSON(s.schema, doc); err != nil {
		return nil, stageErr(StageExtract, fmt.Errorf("%w; model output: %s", err, truncate(result.Content, 2000)))
	}
	return doc, nil
}
