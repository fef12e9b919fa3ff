package extract

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Separator marks the boundary between papers in the combined text so the
// analysis prompt can still distinguish sources informally.
const Separator = "\n\n--- NEW PAPER ---\n\n"

// defaultMinTextChars is the heuristic below which a native extraction is
// assumed to be a scanned paper and OCR kicks in.
const defaultMinTextChars = 100

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	allowListRe  = regexp.MustCompile(`[^\w\s.?!,;:()\-]`)
	newlinesRe   = regexp.MustCompile(`\n+`)
)

// Service runs native extraction with OCR fallback over downloaded papers.
type Service struct {
	native       Extractor
	ocr          Extractor
	minTextChars int
}

// NewService creates a Service. minTextChars <= 0 uses the default threshold.
func NewService(native, ocr Extractor, minTextChars int) *Service {
	if minTextChars <= 0 {
		minTextChars = defaultMinTextChars
	}
	return &Service{native: native, ocr: ocr, minTextChars: minTextChars}
}

// ExtractOne produces cleaned text for a single paper. Native text layer
// extraction runs first; when it yields too little content the paper is
// assumed to be scanned and OCR runs instead. Returns "" on total failure.
func (s *Service) ExtractOne(ctx context.Context, path string) string {
	log := zap.L().With(zap.String("path", path))

	text, err := s.native.ExtractText(ctx, path)
	if err != nil {
		log.Warn("native extraction failed", zap.Error(err))
		text = ""
	}

	if len(strings.TrimSpace(text)) < s.minTextChars {
		log.Info("low text content, falling back to OCR", zap.Int("native_chars", len(text)))
		ocrText, err := s.ocr.ExtractText(ctx, path)
		if err != nil {
			log.Warn("OCR fallback failed", zap.Error(err))
		} else {
			text = ocrText
		}
	}

	cleaned := CleanText(text)
	log.Debug("extracted paper text", zap.Int("chars", len(cleaned)))
	return cleaned
}

// ExtractAll runs ExtractOne over every path, skipping papers that yield no
// text, and joins the survivors with the separator marker.
func (s *Service) ExtractAll(ctx context.Context, paths []string) string {
	blocks := make([]string, 0, len(paths))
	for _, path := range paths {
		text := s.ExtractOne(ctx, path)
		if text == "" {
			zap.L().Warn("skipping paper with no extractable text", zap.String("path", path))
			continue
		}
		blocks = append(blocks, text)
	}
	return strings.Join(blocks, Separator)
}

// CleanText normalizes extracted text: whitespace runs collapse to a single
// space, characters outside the allow-list are stripped, and newline runs
// collapse.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = allowListRe.ReplaceAllString(text, "")
	text = newlinesRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
