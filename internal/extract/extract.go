// Package extract turns stored files into searchable plain text.
// Each supported file type has its own Strategy; the Registry picks one by
// the file's normalized extension. Extraction never fails ingestion: any
// strategy error is converted to a diagnostic string that is stored (and
// therefore searchable) in place of real content.
package extract

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/semaphore"
)

// DiagnosticPrefix marks stored text that is an extraction failure report
// rather than content recovered from the file.
const DiagnosticPrefix = "extraction error: "

// Strategy produces plain text from a file on disk.
type Strategy interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Registry maps normalized type tags (lowercase extensions, dot included)
// to extraction strategies. Lookup is a pure map read; adding a format
// means registering another Strategy, not editing a switch.
type Registry struct {
	strategies map[string]Strategy

	// sem bounds concurrent extractions so a slow OCR run cannot occupy
	// every request goroutine at once.
	sem *semaphore.Weighted
}

// NewRegistry builds the registry with the standard tag families.
// maxConcurrent limits how many extractions may run at the same time.
func NewRegistry(ocr *OCR, maxConcurrent int64) *Registry {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	r := &Registry{
		strategies: make(map[string]Strategy),
		sem:        semaphore.NewWeighted(maxConcurrent),
	}
	for _, tag := range []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"} {
		r.strategies[tag] = ocr
	}
	r.strategies[".pdf"] = PDF{}
	for _, tag := range []string{".xlsx", ".xls"} {
		r.strategies[tag] = Spreadsheet{}
	}
	r.strategies[".csv"] = CSV{}
	return r
}

// Strategy returns the strategy registered for tag, if any.
func (r *Registry) Strategy(tag string) (Strategy, bool) {
	s, ok := r.strategies[tag]
	return s, ok
}

// Text extracts plain text from the file at path according to tag.
// Unrecognized tags yield an empty string. Strategy failures (errors and
// parser panics alike) are logged and returned as a diagnostic string;
// Text itself never fails.
func (r *Registry) Text(ctx context.Context, path, tag string) (text string) {
	strategy, ok := r.strategies[tag]
	if !ok {
		return ""
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return DiagnosticPrefix + err.Error()
	}
	defer r.sem.Release(1)

	// Some parsers panic on malformed input instead of returning an error.
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("extract panic type=%s path=%s error=%v", tag, path, recovered)
			text = DiagnosticPrefix + fmt.Sprintf("%v", recovered)
		}
	}()

	out, err := strategy.Extract(ctx, path)
	if err != nil {
		log.Printf("extract failed type=%s path=%s error=%v", tag, path, err)
		return DiagnosticPrefix + err.Error()
	}
	return strings.TrimSpace(out)
}
