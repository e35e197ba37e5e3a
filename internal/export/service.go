// Package export writes the normalized corpus frame as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arielw/tablemend/internal/normalize"
)

const (
	sheetName   = "OCR Results"
	maxColWidth = 50
	minColWidth = 10
)

// Service produces XLSX bytes from a normalized frame.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteXLSX renders the frame to workbook bytes: one header row, one data
// row per corpus record, column widths sized to content.
func (s *Service) WriteXLSX(frame *normalize.Frame) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	index, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(index)
	// drop the default sheet excelize creates
	_ = f.DeleteSheet("Sheet1")

	widths := make([]int, len(frame.Columns))
	for i, col := range frame.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("write header %q: %w", col, err)
		}
		widths[i] = len([]rune(col))
	}

	for r, row := range frame.Rows {
		for i, col := range frame.Columns {
			val := row[col]
			if val == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
			if n := len([]rune(val)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i := range frame.Columns {
		w := widths[i] + 2
		if w > maxColWidth {
			w = maxColWidth
		}
		if w < minColWidth {
			w = minColWidth
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, name, name, float64(w))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(frame.Rows),
		"columns", len(frame.Columns),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ReadHeaders returns the header row of an exported workbook, for tooling
// that inspects past runs.
func ReadHeaders(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := sheetName
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
