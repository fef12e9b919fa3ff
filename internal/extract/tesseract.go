package extract

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// Tesseract performs OCR over a scanned paper using the tesseract CLI tool.
// Scanned portal papers carry no text layer, so pdftotext returns next to
// nothing for them.
type Tesseract struct {
	binPath string
}

// NewTesseract creates a Tesseract extractor. If binPath is empty,
// "tesseract" is used.
func NewTesseract(binPath string) *Tesseract {
	if binPath == "" {
		binPath = "tesseract"
	}
	return &Tesseract{binPath: binPath}
}

// ExtractText runs tesseract over the file with English language data and
// returns the recognized text from stdout.
func (t *Tesseract) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, t.binPath, pdfPath, "stdout", "-l", "eng")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "extract: tesseract failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}
