//go:build !ocr

package ocr

import (
	"errors"
	"log/slog"

	"github.com/arielw/tablemend/internal/common"
)

// NewTesseractBackend is available only when built with the ocr tag, which
// links the tesseract C libraries via cgo.
func NewTesseractBackend(cfg common.OCRConfig, logger *slog.Logger) (Backend, error) {
	return nil, errors.New("tesseract backend requires building with -tags ocr")
}
