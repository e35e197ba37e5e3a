// Package ocr turns document bytes into raw table grids and page text.
// Two backends exist: the Azure Document Intelligence layout model over
// HTTP, and a local tesseract path for environments without cloud access.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/grid"
)

// Result is what a backend recovered from one document: zero or more raw
// table grids plus the full page text. Text is kept even when tables are
// present; downstream pattern recovery needs it when they are not.
type Result struct {
	Tables []grid.RawTable `json:"tables"`
	Text   string          `json:"text"`
}

// Backend analyzes a single document. Implementations must be safe for
// concurrent use; the pipeline calls them from multiple workers.
type Backend interface {
	Name() string
	AnalyzeTables(ctx context.Context, path string) (Result, error)
}

// NewBackend builds the backend named by cfg.Backend.
func NewBackend(cfg common.OCRConfig, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case "azure", "":
		return NewAzureClient(cfg, logger)
	case "tesseract":
		return NewTesseractBackend(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown ocr backend %q", common.ErrInvalidInput, cfg.Backend)
	}
}

// pollSchedule caps how long a single poll sleeps regardless of config.
func pollSchedule(every time.Duration) time.Duration {
	if every <= 0 {
		return 2 * time.Second
	}
	if every > 30*time.Second {
		return 30 * time.Second
	}
	return every
}
