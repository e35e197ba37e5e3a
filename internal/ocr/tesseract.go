//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/arielw/tablemend/constants"
	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/grid"
	"github.com/arielw/tablemend/internal/textextract"
)

// TesseractBackend runs OCR locally through gosseract. Tesseract has no
// table-geometry model, so the backend returns page text only and lets
// text pattern recovery rebuild the grid. Image inputs only.
type TesseractBackend struct {
	languages   string
	tessdataDir string
	logger      *slog.Logger
}

func NewTesseractBackend(cfg common.OCRConfig, logger *slog.Logger) (*TesseractBackend, error) {
	languages := cfg.Languages
	if languages == "" {
		languages = "heb+eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractBackend{
		languages:   languages,
		tessdataDir: cfg.TessdataDir,
		logger:      logger,
	}, nil
}

func (t *TesseractBackend) Name() string { return "tesseract" }

func (t *TesseractBackend) AnalyzeTables(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.ImageExtensions[ext]; !ok {
		return Result{}, fmt.Errorf("%w: tesseract backend handles images only, got %q",
			common.ErrInvalidInput, ext)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if t.tessdataDir != "" {
		if err := client.SetTessdataPrefix(t.tessdataDir); err != nil {
			return Result{}, common.WrapError(err, "setting tessdata prefix")
		}
	}
	langs := strings.Split(t.languages, "+")
	if err := client.SetLanguage(langs...); err != nil {
		return Result{}, common.WrapError(err, "setting ocr languages")
	}
	if err := client.SetImage(path); err != nil {
		return Result{}, common.WrapError(err, "setting ocr image")
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, common.WrapError(err, "running tesseract")
	}
	text = strings.TrimSpace(text)

	res := Result{Text: text}
	if table, patternName := textextract.Recover(text); table != nil {
		t.logger.Debug("recovered table from tesseract text",
			"path", path, "pattern", patternName, "rows", table.RowCount)
		res.Tables = []grid.RawTable{*table}
	}
	return res, nil
}
