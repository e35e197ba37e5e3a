package structure

import (
	"strings"

	"github.com/arielw/tablemend/internal/classify"
	"github.com/arielw/tablemend/internal/grid"
)

// SyntheticHeaders names columns of a headerless table from the content of
// its first row: ID-like values become ID, the last position becomes
// Other, alphabetic text becomes Name, and everything else falls back to a
// positional placeholder.
func SyntheticHeaders(firstRow []string) []string {
	headers := make([]string, len(firstRow))
	for i, cell := range firstRow {
		v := strings.TrimSpace(cell)
		switch {
		case classify.IsIDLike(v):
			headers[i] = "ID"
		case i == len(firstRow)-1:
			headers[i] = "Other"
		case classify.IsMostlyText(v):
			headers[i] = "Name"
		default:
			headers[i] = grid.ColumnN(i)
		}
	}
	return headers
}

// HandleTransposed wraps a headerless table: synthetic headers on top,
// every input row kept as data.
func HandleTransposed(sourceID string, rows [][]string) grid.CanonicalTable {
	if len(rows) == 0 {
		return grid.CanonicalTable{SourceID: sourceID}
	}
	return grid.CanonicalTable{
		SourceID: sourceID,
		Headers:  SyntheticHeaders(rows[0]),
		DataRows: rows,
	}
}
