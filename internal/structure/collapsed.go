package structure

import (
	"regexp"
	"strings"

	"github.com/arielw/tablemend/internal/classify"
)

var (
	reBareID    = regexp.MustCompile(`^\d{7,10}$`)
	reRowNumber = regexp.MustCompile(`^\d{1,2}$`)
)

// Repaired is a table rebuilt from collapsed single-cell blobs.
type Repaired struct {
	Headers  []string
	DataRows [][]string
}

// IsCollapsed reports whether OCR fused an entire table into one or two
// columns of newline-separated text. The tell is a first cell holding at
// least five lines that are bare 7-10 digit IDs.
func IsCollapsed(rows [][]string) bool {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width > 2 {
		return false
	}
	idLines := 0
	for _, line := range strings.Split(rows[0][0], "\n") {
		if reBareID.MatchString(strings.TrimSpace(line)) {
			idLines++
		}
	}
	return idLines >= 5
}

// RepairCollapsed reconstructs ID-anchored records from collapsed cells.
// Each bare ID line starts a record and consumes the next two lines as the
// name fields; lone one or two digit lines are row numbers and are
// skipped. Returns nil when no records could be recovered.
func RepairCollapsed(rows [][]string) *Repaired {
	var headers []string
	var records [][]string

	for _, row := range rows {
		cell := firstText(row)
		if cell == "" {
			continue
		}

		var lines []string
		for _, line := range strings.Split(cell, "\n") {
			if t := strings.TrimSpace(line); t != "" {
				lines = append(lines, t)
			}
		}

		var rest []string
		for _, line := range lines {
			if classify.HasHeaderVocabulary(line) && !reBareID.MatchString(line) {
				if len(headers) < 3 {
					headers = append(headers, line)
				}
				continue
			}
			rest = append(rest, line)
		}

		for i := 0; i < len(rest); {
			line := rest[i]
			if reRowNumber.MatchString(line) {
				i++
				continue
			}
			if !reBareID.MatchString(line) {
				i++
				continue
			}
			record := []string{line, "", ""}
			for j := 1; j <= 2 && i+j < len(rest); j++ {
				next := rest[i+j]
				if reBareID.MatchString(next) || reRowNumber.MatchString(next) {
					break
				}
				record[j] = next
			}
			consumed := 1
			for j := 1; j <= 2; j++ {
				if record[j] != "" {
					consumed++
				}
			}
			records = append(records, record)
			i += consumed
		}
	}

	if len(records) == 0 {
		return nil
	}
	if len(headers) < 3 {
		headers = []string{"ID", "First Name", "Last Name"}
	}
	return &Repaired{Headers: headers, DataRows: records}
}

func firstText(row []string) string {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return cell
		}
	}
	return ""
}
