package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileSink persists the aggregated result document as JSON. Each run
// overwrites the previous run's file; there are no append or merge semantics.
type FileSink struct {
	path   string
	logger *zap.Logger
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string, logger *zap.Logger) *FileSink {
	return &FileSink{path: path, logger: logger}
}

// Write serializes the document and writes it once, at end of run.
func (s *FileSink) Write(ctx context.Context, doc ResultDocument) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write results to %s: %w", s.path, err)
	}
	s.logger.Info("results written",
		zap.String("path", s.path),
		zap.Int("total_count", doc.TotalCount))
	return nil
}
