package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examhack/examhack/internal/config"
)

// stubExtractor returns canned text per path, or an error.
type stubExtractor struct {
	texts map[string]string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(_ context.Context, path string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.texts[path], nil
}

const longText = "Q1. Explain the difference between a stack and a queue with examples. " +
	"Q2. Convert the infix expression A+B*C to postfix notation using a stack."

func TestCleanText(t *testing.T) {
	in := "What   is\t\ta stack?\n\n\nExplain   @@@push() and pop()!"
	out := CleanText(in)
	assert.Equal(t, "What is a stack? Explain push() and pop()!", out)
}

func TestCleanText_KeepsAllowedPunctuation(t *testing.T) {
	out := CleanText("a.b?c!d,e;f:g(h)i-j")
	assert.Equal(t, "a.b?c!d,e;f:g(h)i-j", out)
}

func TestExtractOne_NativeSufficient(t *testing.T) {
	native := &stubExtractor{texts: map[string]string{"p1.pdf": longText}}
	ocr := &stubExtractor{}
	svc := NewService(native, ocr, 100)

	got := svc.ExtractOne(context.Background(), "p1.pdf")
	assert.Contains(t, got, "stack and a queue")
	assert.Zero(t, ocr.calls, "OCR must not run when native text suffices")
}

func TestExtractOne_OCRFallbackOnShortText(t *testing.T) {
	native := &stubExtractor{texts: map[string]string{"scan.pdf": "  \n "}}
	ocr := &stubExtractor{texts: map[string]string{"scan.pdf": longText}}
	svc := NewService(native, ocr, 100)

	got := svc.ExtractOne(context.Background(), "scan.pdf")
	assert.Contains(t, got, "postfix notation")
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractOne_EmptyOnTotalFailure(t *testing.T) {
	native := &stubExtractor{err: eris.New("boom")}
	ocr := &stubExtractor{err: eris.New("boom too")}
	svc := NewService(native, ocr, 100)

	got := svc.ExtractOne(context.Background(), "bad.pdf")
	assert.Empty(t, got)
}

func TestExtractAll_SkipsFailuresJoinsSurvivors(t *testing.T) {
	native := &stubExtractor{texts: map[string]string{
		"p1.pdf": longText + " paper one",
		"p2.pdf": "", // fails both stages
		"p3.pdf": longText + " paper three",
	}}
	ocr := &stubExtractor{texts: map[string]string{}}
	svc := NewService(native, ocr, 100)

	got := svc.ExtractAll(context.Background(), []string{"p1.pdf", "p2.pdf", "p3.pdf"})

	segments := strings.Split(got, Separator)
	require.Len(t, segments, 2, "3 papers with 1 failure yield 2 segments")
	assert.Contains(t, segments[0], "paper one")
	assert.Contains(t, segments[1], "paper three")
}

func TestExtractAll_AllFail(t *testing.T) {
	native := &stubExtractor{err: eris.New("unreadable")}
	ocr := &stubExtractor{err: eris.New("unreadable")}
	svc := NewService(native, ocr, 100)

	got := svc.ExtractAll(context.Background(), []string{"p1.pdf", "p2.pdf"})
	assert.Empty(t, got)
}

func TestNewOCR_Tesseract(t *testing.T) {
	ext, err := NewOCR(config.OCRConfig{Provider: "tesseract", TesseractPath: "/usr/bin/tesseract"})
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, ext)
}

func TestNewOCR_Default(t *testing.T) {
	ext, err := NewOCR(config.OCRConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, ext)
}

func TestNewOCR_MistralMissingKey(t *testing.T) {
	_, err := NewOCR(config.OCRConfig{Provider: "mistral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral provider requires mistral_api_key")
}

func TestNewOCR_MistralWithKey(t *testing.T) {
	ext, err := NewOCR(config.OCRConfig{Provider: "mistral", MistralKey: "test-key"})
	require.NoError(t, err)
	assert.IsType(t, &MistralOCR{}, ext)
}

func TestNewOCR_UnknownProvider(t *testing.T) {
	_, err := NewOCR(config.OCRConfig{Provider: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown OCR provider "nope"`)
}

func TestNewPdfToText_BinPath(t *testing.T) {
	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)

	p = NewPdfToText("/custom/pdftotext")
	assert.Equal(t, "/custom/pdftotext", p.binPath)
}

func TestMistralOCR_DefaultModel(t *testing.T) {
	m := NewMistralOCR("key", "")
	assert.Equal(t, defaultMistralModel, m.model)
}
