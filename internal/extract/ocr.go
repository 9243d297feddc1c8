package extract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// OCRUnavailableText is stored for every image ingested while no OCR engine
// is installed. Fixed so clients (and tests) can recognize it.
const OCRUnavailableText = "OCR unavailable - tesseract is not installed"

// OCR recognizes text in images by invoking the tesseract CLI.
//
// Availability is decided once, when the capability is constructed: if the
// binary is not on PATH, BinPath stays empty and every Extract call returns
// the fixed unavailability text without spawning anything.
type OCR struct {
	// BinPath is the resolved tesseract binary; empty means unavailable.
	BinPath string
	// Languages is the tesseract -l argument, e.g. "tur+eng".
	Languages string
}

// NewOCR probes PATH for tesseract and returns the capability.
func NewOCR(languages string) *OCR {
	path, err := exec.LookPath("tesseract")
	if err != nil {
		log.Printf("ocr unavailable: %v", err)
		return &OCR{Languages: languages}
	}
	return &OCR{BinPath: path, Languages: languages}
}

// Available reports whether an OCR engine was found at startup.
func (o *OCR) Available() bool { return o.BinPath != "" }

// Extract runs recognition on the image at path and returns trimmed text.
// When the engine is unavailable it returns OCRUnavailableText as content,
// not as an error: an image without an engine is a degraded result, not a
// failed ingestion.
func (o *OCR) Extract(ctx context.Context, path string) (string, error) {
	if !o.Available() {
		return OCRUnavailableText, nil
	}

	cmd := exec.CommandContext(ctx, o.BinPath, path, "stdout", "-l", o.Languages)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
