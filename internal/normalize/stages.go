package normalize

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/arielw/tablemend/constants"
	"github.com/arielw/tablemend/internal/classify"
	"github.com/arielw/tablemend/internal/grid"
)

// Normalizer applies the corpus-wide column pass. Stages run in a fixed
// order; each assumes the cleanup of the ones before it.
type Normalizer struct {
	mapping *Mapping
	logger  *slog.Logger
}

func NewNormalizer(mapping *Mapping, logger *slog.Logger) *Normalizer {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{mapping: mapping, logger: logger}
}

// Normalize runs all stages over the frame in place and returns it.
func (n *Normalizer) Normalize(f *Frame) *Frame {
	n.dropDataNamedColumns(f)
	n.promoteDataHeaders(f)
	n.fixSpreadsheetHeaders(f)
	n.dropSpreadsheetLetterColumns(f)
	n.dropNearEmptyColumns(f)
	n.dropLowDensityColumns(f)
	n.fixMisplacedIDColumns(f)

	matches := n.findMatchingColumns(f.Columns)
	n.resolveIDRowNumberConflict(f, matches)
	n.mergeMatchedColumns(f, matches)

	n.reorderColumns(f)
	n.postProcessIdentity(f)
	return f
}

// protected columns never dropped or repurposed by any stage.
func protected(name string) bool {
	return name == constants.ColSourceFile || name == constants.ColError
}

// Stage 1: a column literally named after a date, an ID or a blob of text
// is the residue of a mis-detected header; drop it.
func (n *Normalizer) dropDataNamedColumns(f *Frame) {
	var doomed []string
	for _, col := range f.Columns {
		if protected(col) {
			continue
		}
		if classify.LooksLikeData(col) {
			doomed = append(doomed, col)
		}
	}
	if len(doomed) > 0 {
		n.logger.Info("dropping data-named columns", "columns", doomed)
		f.DropColumns(doomed...)
	}
}

// Stage 2: when most column names read like data, the real headers are
// probably sitting in one of the first few rows. Promote that row and push
// the former headers back in as data.
func (n *Normalizer) promoteDataHeaders(f *Frame) {
	if len(f.Rows) < 2 {
		return
	}
	total, suspicious := 0, 0
	suspiciousSet := map[string]bool{}
	for _, col := range f.Columns {
		if protected(col) || strings.TrimSpace(col) == "" {
			continue
		}
		total++
		if classify.LooksLikeData(col) || classify.HasLongDigitRun(col) {
			suspicious++
			suspiciousSet[col] = true
		}
	}
	if total <= 2 || float64(suspicious) < 0.4*float64(total) {
		return
	}

	for rowIdx := 0; rowIdx < len(f.Rows) && rowIdx < 3; rowIdx++ {
		row := f.Rows[rowIdx]
		headerLike := 0
		candidate := map[string]string{}
		for _, col := range f.Columns {
			if protected(col) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			ok := len([]rune(v)) <= 25 &&
				!classify.HasLongDigitRun(v) &&
				!(strings.Contains(v, "ו") && classify.HebrewWordCount(v) >= 3) &&
				!suspiciousSet[v]
			if ok {
				headerLike++
				candidate[col] = v
			}
		}
		if float64(headerLike) < 0.6*float64(total) {
			continue
		}

		n.logger.Info("promoting data row to headers", "row", rowIdx)
		oldHeaders := map[string]string{}
		order := append([]string(nil), f.Columns...)
		renames := map[string]string{}
		for i, col := range order {
			if protected(col) {
				continue
			}
			newName := classify.CleanHeader(candidate[col])
			if newName == "" {
				newName = grid.ColumnN(i)
			}
			renames[col] = newName
			oldHeaders[newName] = col
		}
		// apply in column order so header collisions resolve the same
		// way on every run.
		for _, col := range order {
			if newName, ok := renames[col]; ok {
				f.RenameColumn(col, newName)
			}
		}
		// former header texts become a data row; the promoted row is gone.
		f.Rows = append(f.Rows[:rowIdx], f.Rows[rowIdx+1:]...)
		f.Rows = append([]map[string]string{oldHeaders}, f.Rows...)
		return
	}
}

// Stage 3: spreadsheet exports surface A..Z as the header row while the
// real headers land in row 0.
func (n *Normalizer) fixSpreadsheetHeaders(f *Frame) {
	if len(f.Rows) == 0 {
		return
	}
	total, letters := 0, 0
	for _, col := range f.Columns {
		if protected(col) {
			continue
		}
		total++
		if classify.IsSpreadsheetLetter(col) {
			letters++
		}
	}
	if total <= 2 || float64(letters) <= 0.5*float64(total) {
		return
	}

	first := f.Rows[0]
	meaningful := 0
	for _, col := range f.Columns {
		if protected(col) {
			continue
		}
		v := strings.TrimSpace(first[col])
		if len([]rune(v)) > 1 && hasLetter(v) {
			meaningful++
		}
	}
	if float64(meaningful) < 0.6*float64(total) {
		return
	}

	n.logger.Info("promoting first row over spreadsheet-letter headers")
	for _, col := range append([]string(nil), f.Columns...) {
		if protected(col) {
			continue
		}
		newName := classify.CleanHeader(first[col])
		if newName != "" && newName != col {
			f.RenameColumn(col, newName)
		}
	}
	f.Rows = f.Rows[1:]
}

// Stage 4: whatever spreadsheet letters survive are not data columns.
func (n *Normalizer) dropSpreadsheetLetterColumns(f *Frame) {
	var doomed []string
	for _, col := range f.Columns {
		if !protected(col) && classify.IsSpreadsheetLetter(col) {
			doomed = append(doomed, col)
		}
	}
	if len(doomed) > 0 {
		n.logger.Info("removing spreadsheet-letter columns", "columns", doomed)
		f.DropColumns(doomed...)
	}
}

// Stage 5: unnamed columns, and single-digit columns with next to no data.
func (n *Normalizer) dropNearEmptyColumns(f *Frame) {
	var doomed []string
	for _, col := range f.Columns {
		if protected(col) {
			continue
		}
		name := strings.TrimSpace(col)
		count := f.NonEmptyCount(col)
		switch {
		case name == "":
			doomed = append(doomed, col)
		case len(name) == 1 && name[0] >= '0' && name[0] <= '9' && count < 10:
			doomed = append(doomed, col)
		}
	}
	if len(doomed) > 0 {
		n.logger.Info("removing near-empty columns", "columns", doomed)
		f.DropColumns(doomed...)
	}
}

// Stage 6: density floor across the corpus.
func (n *Normalizer) dropLowDensityColumns(f *Frame) {
	totalRows := len(f.Rows)
	var doomed []string
	for _, col := range f.Columns {
		if protected(col) {
			continue
		}
		count := f.NonEmptyCount(col)
		if count < 3 {
			doomed = append(doomed, col)
			continue
		}
		if totalRows > 100 && float64(count) < 0.05*float64(totalRows) {
			doomed = append(doomed, col)
		}
	}
	if len(doomed) > 0 {
		n.logger.Info("removing low-density columns", "columns", doomed)
		f.DropColumns(doomed...)
	}
}

// identityColumns already hold the data stage 7 hunts for.
var identityColumns = map[string]bool{
	"ID": true, "Employee Number": true, "Serial Number": true,
	"Military ID": true, "Phone Number": true, "Phone": true,
}

// Stage 7: a non-identity column filled with ID-shaped values carries
// misplaced identity data. Merge the values into the target column where
// it is empty, or rename the column when no target exists.
func (n *Normalizer) fixMisplacedIDColumns(f *Frame) {
	for _, col := range append([]string(nil), f.Columns...) {
		if protected(col) || identityColumns[col] {
			continue
		}
		sample := f.SampleValues(col, 20)
		if len(sample) == 0 {
			continue
		}
		idLike, military, regular := 0, 0, 0
		for _, v := range sample {
			switch classify.ClassifyID(v) {
			case classify.IDRegular:
				regular++
				idLike++
			case classify.IDMilitary:
				military++
				idLike++
			case classify.IDGeneral:
				idLike++
			}
		}
		if idLike < 3 || float64(idLike) < 0.6*float64(len(sample)) {
			continue
		}

		target := "ID"
		if military > regular && float64(military) >= 0.6*float64(len(sample)) {
			target = "Military ID"
		}
		if f.HasColumn(target) {
			n.logger.Info("merging misplaced identity values", "from", col, "into", target)
			for _, row := range f.Rows {
				v := strings.TrimSpace(row[col])
				if v == "" || !classify.IsGeneralID(v) {
					continue
				}
				if strings.TrimSpace(row[target]) == "" {
					row[target] = v
					delete(row, col)
				}
			}
		} else {
			n.logger.Info("renaming identity column", "from", col, "to", target)
			f.RenameColumn(col, target)
		}
	}
}

// Stage 8: claim columns for canonical names via the semantic mapping.
func (n *Normalizer) findMatchingColumns(columns []string) map[string][]string {
	matches := map[string][]string{}
	for _, name := range n.mapping.Names {
		var found []string
		for _, col := range columns {
			if protected(col) {
				continue
			}
			if n.mapping.matchesVariant(name, col) {
				found = append(found, col)
			}
		}
		if len(found) > 0 {
			matches[name] = found
		}
	}
	return matches
}

// Stage 9: a column claimed by both ID and Row Number gets decided by its
// values. Sequential small integers are row numbers; long digit strings
// are IDs; anything unclear defaults to row numbers.
func (n *Normalizer) resolveIDRowNumberConflict(f *Frame, matches map[string][]string) {
	idCols, rowCols := matches["ID"], matches["Row Number"]
	if len(idCols) == 0 || len(rowCols) == 0 {
		return
	}
	inRows := map[string]bool{}
	for _, c := range rowCols {
		inRows[c] = true
	}
	for _, col := range idCols {
		if !inRows[col] {
			continue
		}
		sample := f.SampleValues(col, 10)

		var ints []int
		for _, v := range sample {
			if x, err := strconv.Atoi(v); err == nil {
				ints = append(ints, x)
			}
		}
		if len(ints) >= 3 && isSequential(ints) && ints[0] <= 5 && maxInt(ints) <= 100 {
			n.logger.Info("conflict column classified as row numbers", "column", col)
			matches["ID"] = remove(matches["ID"], col)
			continue
		}

		long := 0
		for _, v := range sample {
			if len(v) >= 7 {
				long++
			}
		}
		if len(sample) > 0 && float64(long) >= 0.8*float64(len(sample)) {
			n.logger.Info("conflict column classified as IDs", "column", col)
			matches["Row Number"] = remove(matches["Row Number"], col)
		} else {
			n.logger.Info("conflict column defaulted to row numbers", "column", col)
			matches["ID"] = remove(matches["ID"], col)
		}
	}
}

// Stage 10: merge every canonical name's matched columns into one. A row
// keeps its first non-empty value; distinct conflicting values are
// pipe-joined in first-seen order.
func (n *Normalizer) mergeMatchedColumns(f *Frame, matches map[string][]string) {
	for _, name := range n.mapping.Names {
		cols := matches[name]
		var existing []string
		for _, c := range cols {
			if f.HasColumn(c) {
				existing = append(existing, c)
			}
		}
		switch {
		case len(existing) == 1:
			if existing[0] != name {
				n.logger.Info("renaming column", "from", existing[0], "to", name)
				f.RenameColumn(existing[0], name)
			}
		case len(existing) > 1:
			n.logger.Info("merging columns", "into", name, "columns", existing)
			merged := make([]string, len(f.Rows))
			for i, row := range f.Rows {
				var distinct []string
				for _, c := range existing {
					v := strings.TrimSpace(row[c])
					if v == "" || contains(distinct, v) {
						continue
					}
					distinct = append(distinct, v)
				}
				merged[i] = strings.Join(distinct, " | ")
			}
			var doomed []string
			for _, c := range existing {
				if c != name {
					doomed = append(doomed, c)
				}
			}
			f.DropColumns(doomed...)
			f.ensureColumn(name)
			for i, row := range f.Rows {
				if merged[i] != "" {
					row[name] = merged[i]
				} else {
					delete(row, name)
				}
			}
		}
	}
}

// Stage 11: Source File first, then the preferred semantic order, then
// whatever else in encounter order.
func (n *Normalizer) reorderColumns(f *Frame) {
	var order []string
	if f.HasColumn(constants.ColSourceFile) {
		order = append(order, constants.ColSourceFile)
	}
	for _, name := range constants.PreferredColumnOrder {
		if f.HasColumn(name) && !contains(order, name) {
			order = append(order, name)
		}
	}
	for _, col := range f.Columns {
		if !contains(order, col) {
			order = append(order, col)
		}
	}
	f.Columns = order
}

// ocrGarbage are characters that show up in misread ID values.
const ocrGarbage = `/()',jHODSN`

// Stage 12: long Employee Number values are usually the real ID. Move them
// into an empty ID cell, or replace an ID that is plainly OCR garbage.
func (n *Normalizer) postProcessIdentity(f *Frame) {
	if !f.HasColumn("Employee Number") || !f.HasColumn("ID") {
		return
	}
	moved, replaced := 0, 0
	for _, row := range f.Rows {
		emp := strings.TrimSpace(row["Employee Number"])
		if len([]rune(emp)) <= 7 {
			continue
		}
		digits := digitCount(emp)
		plausible := isAllDigits(emp) ||
			(strings.HasPrefix(emp, "A") && len([]rune(emp)) <= 12) ||
			(strings.Contains(emp, "/") && digits >= 7)
		if !plausible {
			continue
		}

		id := strings.TrimSpace(row["ID"])
		switch {
		case id == "":
			row["ID"] = emp
			delete(row, "Employee Number")
			moved++
		case looksInvalidID(id):
			row["ID"] = emp
			delete(row, "Employee Number")
			replaced++
		}
	}
	if moved > 0 || replaced > 0 {
		n.logger.Info("employee numbers promoted to IDs", "moved", moved, "replaced", replaced)
	}
}

func looksInvalidID(id string) bool {
	if len([]rune(id)) < 6 || strings.Contains(id, " ") {
		return true
	}
	if strings.ContainsAny(id, ocrGarbage) {
		return true
	}
	return digitCount(id) == 0
}

func isSequential(vals []int) bool {
	for i, v := range vals {
		if v != vals[0]+i {
			return false
		}
	}
	return true
}

func maxInt(vals []int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= 0x0590 && r <= 0x05FF) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
