// Package structure recovers a well-formed header+rows table from the noisy
// row grids that OCR produces: misaligned column counts, data posing as
// headers, titles and spreadsheet chrome above the real header row,
// transposed tables and cells collapsed into multi-line blobs.
package structure

import (
	"strings"

	"github.com/arielw/tablemend/internal/classify"
	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/grid"
)

// Detection is the outcome of header-row detection. When Transposed is set
// there is no header row: every input row, including the nominal first one,
// is data. Rows in DataRows are the corrected source of truth; rule 1 may
// have rebuilt them.
type Detection struct {
	Transposed bool
	Headers    []string
	DataRows   [][]string
	// Rule names the decision path, for logging. "default" means the
	// detector fell through with low confidence.
	Rule string
}

// Detect determines which row, if any, is the true header row. It is pure
// with respect to its input: repaired row sets are returned, never written
// back. Zero rows is a no-table condition.
func Detect(rows [][]string) (Detection, error) {
	if len(rows) == 0 {
		return Detection{}, common.ErrNoTableData
	}

	// Spreadsheet chrome captured above the table is never a header
	// candidate; skip it before anything else so the rules below see the
	// real first row.
	lead := 0
	for lead < len(rows) && lead <= 2 && classify.IsUIRow(rows[lead]) {
		lead++
	}
	rows = rows[lead:]
	if len(rows) == 0 {
		return Detection{}, common.ErrNoTableData
	}

	first := rows[0]
	modal := modalColumnCount(rows[1:])

	// Rule 1: column-count mismatch. When data rows carry more columns than
	// the putative header row the table is structurally misaligned; rebuild
	// headers by type inference over the leading data rows.
	if len(rows) > 2 && len(first) != modal && modal > len(first) {
		headers := inferHeadersByType(rows[1:], modal)
		data := rows[1:]
		if !classify.RowHasHeaderVocabulary(first) {
			data = append([][]string{padRow(first, modal)}, data...)
		}
		return Detection{Headers: headers, DataRows: data, Rule: "column-mismatch"}, nil
	}

	// Rule 2: ID values sitting in the first row with no header vocabulary
	// mean the whole table is headerless.
	if rowHasIDValues(first) && !classify.RowHasHeaderVocabulary(first) {
		return Detection{Transposed: true, DataRows: rows, Rule: "id-first-row"}, nil
	}

	if len(rows) == 1 {
		return Detection{Headers: rows[0], Rule: "single-row"}, nil
	}

	// Rule 3: a sparse or title-like first row is document metadata, not
	// headers. The real header row, if any, sits within the next few rows.
	if nonEmptyCount(first)*2 < modal || classify.TitleLike(first) {
		for i := 1; i < len(rows) && i <= 4; i++ {
			r := rows[i]
			if classify.IsUIRow(r) {
				continue
			}
			if nonEmptyCount(r) >= modal && classify.RowHasHeaderVocabulary(r) && !rowHasIDValues(r) {
				return Detection{Headers: r, DataRows: rows[i+1:], Rule: "title-skip"}, nil
			}
		}
		return Detection{Headers: fallbackHeaders(modal), DataRows: rows[1:], Rule: "title-fallback"}, nil
	}

	// Rule 4: a short first row with a name glued to a long digit run means
	// OCR merged logical columns; no trustworthy header row exists.
	if len(first) < modal {
		for _, cell := range first {
			if classify.HasEmbeddedID(cell) {
				return Detection{Transposed: true, DataRows: rows, Rule: "embedded-id"}, nil
			}
		}
	}

	// Rules 5+6: skip spreadsheet-chrome rows near the top, then pick the
	// first remaining row that reads like headers.
	for i := 0; i < len(rows) && i <= 4; i++ {
		r := rows[i]
		if i <= 2 && classify.IsUIRow(r) {
			continue
		}
		if headerLikeness(r) {
			return Detection{Headers: r, DataRows: rows[i+1:], Rule: "header-likeness"}, nil
		}
	}

	// No row reads like headers. A mostly-ID first column below the top row
	// means the table is acceptable as-is; otherwise it is transposed.
	if firstColumnMostlyIDs(rows) {
		return Detection{Headers: first, DataRows: rows[1:], Rule: "id-column"}, nil
	}
	if !classify.RowHasHeaderVocabulary(first) {
		return Detection{Transposed: true, DataRows: rows, Rule: "no-header-row"}, nil
	}

	return Detection{Headers: first, DataRows: rows[1:], Rule: "default"}, nil
}

// modalColumnCount returns the most frequent row length; ties resolve to
// the larger count.
func modalColumnCount(rows [][]string) int {
	if len(rows) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, r := range rows {
		counts[len(r)]++
	}
	modal, best := 0, 0
	for length, n := range counts {
		if n > best || (n == best && length > modal) {
			modal, best = length, n
		}
	}
	return modal
}

// inferHeadersByType rebuilds a header row by sampling the first handful of
// data rows column-wise.
func inferHeadersByType(data [][]string, width int) []string {
	headers := make([]string, width)
	textColumns := 0
	for col := 0; col < width; col++ {
		var sample []string
		for i := 0; i < len(data) && i < 6; i++ {
			if col < len(data[i]) {
				sample = append(sample, strings.TrimSpace(data[i][col]))
			}
		}

		idCount, textCount, nonEmpty := 0, 0, 0
		for _, v := range sample {
			if v == "" {
				continue
			}
			nonEmpty++
			if classify.IsIDLike(v) {
				idCount++
			} else if classify.IsMostlyText(v) {
				textCount++
			}
		}

		switch {
		case idCount >= 3:
			headers[col] = "ID"
		case nonEmpty*2 <= len(sample):
			headers[col] = ""
		case textCount*2 > len(sample):
			switch textColumns {
			case 0:
				headers[col] = "First Name"
			case 1:
				headers[col] = "Last Name"
			default:
				headers[col] = "Name"
			}
			textColumns++
		default:
			headers[col] = grid.ColumnN(col)
		}
	}
	return headers
}

// fallbackHeaders synthesizes positional headers when no header row could
// be located at all.
func fallbackHeaders(width int) []string {
	fixed := []string{"Row Number", "Last Name", "First Name", "Address", "ID"}
	headers := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(fixed) {
			headers[i] = fixed[i]
		} else {
			headers[i] = grid.ColumnN(i)
		}
	}
	return headers
}

// headerLikeness reports whether at least half the cells of a row contain
// header vocabulary or are majority non-numeric text.
func headerLikeness(row []string) bool {
	if len(row) == 0 {
		return false
	}
	qualifying := 0
	for _, cell := range row {
		if classify.HasHeaderVocabulary(cell) || classify.IsMostlyText(cell) {
			qualifying++
		}
	}
	return qualifying*2 >= len(row)
}

// firstColumnMostlyIDs checks rows 1-5: a leading ID column means the
// table shape is trustworthy even without recognizable header text.
func firstColumnMostlyIDs(rows [][]string) bool {
	idCount, sampled := 0, 0
	for i := 1; i < len(rows) && i <= 5; i++ {
		if len(rows[i]) == 0 {
			continue
		}
		sampled++
		if classify.IsIDLike(rows[i][0]) {
			idCount++
		}
	}
	return sampled > 0 && idCount*2 > sampled
}

func rowHasIDValues(row []string) bool {
	for _, cell := range row {
		if classify.IsIDLike(cell) {
			return true
		}
	}
	return false
}

func nonEmptyCount(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
