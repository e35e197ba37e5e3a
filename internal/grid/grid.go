// Package grid holds the raw and canonical table models that the
// structure-recovery pipeline operates on. A RawTable is the backend's
// cell-level view of one detected table region; a CanonicalTable is the
// cleaned, header-resolved result for one document.
package grid

import (
	"strconv"
	"strings"
)

// Cell is one OCR-detected text cell. Indices are zero-based and may have
// gaps; (RowIndex, ColumnIndex) is unique within a table.
type Cell struct {
	RowIndex    int    `json:"row_index"`
	ColumnIndex int    `json:"column_index"`
	Content     string `json:"content"`
}

// RawTable is the raw OCR-detected grid of text cells for one table region.
type RawTable struct {
	TableIndex  int    `json:"table_index"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	Cells       []Cell `json:"cells,omitempty"`
	// Rows is populated for payloads that already materialized the grid.
	PlacedRows [][]string `json:"rows,omitempty"`
}

// Rows materializes the cell grid into dense rows. Every slot not placed by
// a cell becomes the empty string; rows with no non-blank cell are dropped.
func (t *RawTable) Rows() [][]string {
	if len(t.PlacedRows) > 0 {
		return t.PlacedRows
	}
	if len(t.Cells) == 0 {
		return nil
	}

	maxRow, maxCol := 0, 0
	for _, c := range t.Cells {
		if c.RowIndex > maxRow {
			maxRow = c.RowIndex
		}
		if c.ColumnIndex > maxCol {
			maxCol = c.ColumnIndex
		}
	}

	dense := make([][]string, maxRow+1)
	for i := range dense {
		dense[i] = make([]string, maxCol+1)
	}
	for _, c := range t.Cells {
		dense[c.RowIndex][c.ColumnIndex] = strings.TrimSpace(c.Content)
	}

	rows := make([][]string, 0, len(dense))
	for _, row := range dense {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				rows = append(rows, row)
				break
			}
		}
	}
	return rows
}

// CanonicalTable is a cleaned, header-resolved table for one document.
// Every data row has at most len(Headers) addressed cells; extra cells are
// mapped to synthesized Column_N names downstream.
type CanonicalTable struct {
	SourceID string
	Headers  []string
	DataRows [][]string
}

// ColumnN returns the synthesized name for a headerless column position
// (1-based, matching the original corpus output).
func ColumnN(i int) string {
	return "Column_" + strconv.Itoa(i+1)
}
