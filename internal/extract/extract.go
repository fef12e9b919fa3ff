// Package extract turns downloaded exam papers into cleaned plain text,
// preferring the native PDF text layer and falling back to OCR for scans.
package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/examhack/examhack/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewOCR creates the OCR fallback Extractor based on config.
func NewOCR(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "tesseract", "":
		return NewTesseract(cfg.TesseractPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("extract: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("extract: unknown OCR provider %q", cfg.Provider)
	}
}
