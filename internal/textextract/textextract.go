// Package textextract recovers tabular records from raw OCR text when the
// layout engine reported no tables at all. Many scans carry perfectly
// regular rosters that survive as plain text even when table geometry is
// lost.
package textextract

import (
	"regexp"

	"github.com/arielw/tablemend/internal/grid"
)

// minMatches is the floor below which repeated matches are treated as
// coincidence rather than structure.
const minMatches = 3

type pattern struct {
	name    string
	re      *regexp.Regexp
	headers []string
}

var patterns = []pattern{
	// Name classes deliberately exclude newlines so a single match never
	// spans records.
	{
		name:    "list_with_id",
		re:      regexp.MustCompile(`(\d+)[ \t]+([\x{0590}-\x{05FF} \w.-]+?)[ \t]+([\d-]+)[ \t]+(\d{7,10})`),
		headers: []string{"Row Number", "Name", "Phone", "ID"},
	},
	{
		name:    "name_phone_id",
		re:      regexp.MustCompile(`([\x{0590}-\x{05FF} \w.-]+?)[ \t]+([\d-]+)[ \t]+(\d{7,10})`),
		headers: []string{"Name", "Phone", "ID"},
	},
	{
		name:    "id_name_pattern",
		re:      regexp.MustCompile(`(\d{7,10})[ \t]+([\x{0590}-\x{05FF} \w.-]+)`),
		headers: []string{"ID", "Name"},
	},
}

// Recover scans raw text for repeating record shapes and, when one occurs
// at least three times, rebuilds a table from it. Patterns are tried in
// decreasing specificity and the one with the most matches wins. Returns
// nil and the empty string when nothing repeats often enough.
func Recover(text string) (*grid.RawTable, string) {
	var best pattern
	var bestMatches [][]string
	for _, p := range patterns {
		matches := p.re.FindAllStringSubmatch(text, -1)
		if len(matches) >= minMatches && len(matches) > len(bestMatches) {
			best = p
			bestMatches = matches
		}
	}
	if bestMatches == nil {
		return nil, ""
	}

	rows := make([][]string, 0, len(bestMatches)+1)
	rows = append(rows, best.headers)
	for _, m := range bestMatches {
		if len(m)-1 == len(best.headers) {
			rows = append(rows, m[1:])
		}
	}

	return &grid.RawTable{
		TableIndex:  0,
		RowCount:    len(rows),
		ColumnCount: len(best.headers),
		PlacedRows:  rows,
	}, best.name
}
