package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackzampolin/pdfextract/internal/pdftext"
	"github.com/jackzampolin/pdfextract/internal/providers"
	"github.com/jackzampolin/pdfextract/internal/responses"
)

// Uploader stores a local file remotely and returns its identifier.
type Uploader interface {
	UploadFile(ctx context.Context, path, purpose string) (*providers.File, error)
}

// Responder issues a Responses API call and returns the raw body.
type Responder interface {
	CreateResponse(ctx context.Context, body []byte) ([]byte, error)
}

// DocumentConfig configures a DocumentScanner.
type DocumentConfig struct {
	Files       Uploader
	Responses   Responder
	Model       string
	Instruction string
	Purpose     string
	Logger      *slog.Logger
}

// DocumentScanner uploads a PDF and asks the model to describe it as JSON.
type DocumentScanner struct {
	files       Uploader
	responses   Responder
	model       string
	instruction string
	purpose     string
	logger      *slog.Logger
}

// NewDocumentScanner creates a new DocumentScanner.
func NewDocumentScanner(cfg DocumentConfig) *DocumentScanner {
	if cfg.Purpose == "" {
		cfg.Purpose = providers.PurposeUserData
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &DocumentScanner{
		files:       cfg.Files,
		responses:   cfg.Responses,
		model:       cfg.Model,
		instruction: cfg.Instruction,
		purpose:     cfg.Purpose,
		logger:      cfg.Logger,
	}
}

// Scan uploads the PDF at path, requests a JSON extraction of it
// and returns the JSON text found in the response.
func (s *DocumentScanner) Scan(ctx context.Context, path string) (string, error) {
	log := s.logger.With("path", path)

	if _, err := os.Stat(path); err != nil {
		return "", stageErr(StageRead, fmt.Errorf("PDF file not found: %s", path))
	}
	if pages, err := pdftext.PageCount(path); err != nil {
		log.Warn("could not read page count", "error", err)
	} else {
		log.Debug("pdf inspected", "pages", pages)
	}

	log.Info("uploading PDF")
	file, err := s.files.UploadFile(ctx, path, s.purpose)
	if err != nil {
		return "", stageErr(StageUpload, err)
	}

	body, err := responses.BuildRequest(s.model, file.ID, s.instruction).Marshal()
	if err != nil {
		return "", err
	}

	log.Info("requesting extraction", "file_id", file.ID, "model", s.model)
	raw, err := s.responses.CreateResponse(ctx, body)
	if err != nil {
		return "", stageErr(StageCompletion, err)
	}

	payload, ok, err := responses.ExtractRaw(raw)
	if err != nil {
		return "", stageErr(StageExtract, fmt.Errorf("%w; raw response: %s", err, raw))
	}
	if !ok {
		return "", stageErr(StageExtract, fmt.Errorf("no JSON payload found in response: %s", raw))
	}
	return payload, nil
}
