// Package normalize runs the corpus-wide column pass: after every document
// has produced a canonical table, the union of all rows is treated as one
// wide frame whose columns get cleaned, deduplicated, semantically merged
// and reordered.
package normalize

import (
	"strings"

	"github.com/arielw/tablemend/constants"
	"github.com/arielw/tablemend/internal/classify"
	"github.com/arielw/tablemend/internal/grid"
)

// Frame is the corpus-wide table. Rows are keyed by column name; Columns
// carries the order. Values are plain strings, "" meaning absent.
type Frame struct {
	Columns []string
	Rows    []map[string]string
}

// Failure marks a document that produced no usable table. It still gets a
// row in the output, carrying only its source and the error text.
type Failure struct {
	SourceID string
	Reason   string
}

// BuildFrame flattens canonical tables from all documents into one frame.
// Headers are artifact-cleaned per document; cells beyond the named
// headers get positional Column_N names. Failed documents contribute an
// error-marker row so no document silently vanishes from the output.
func BuildFrame(tables []grid.CanonicalTable, failures []Failure) *Frame {
	f := &Frame{}
	f.ensureColumn(constants.ColSourceFile)

	for _, t := range tables {
		headers := classify.CleanHeaders(t.Headers)
		for _, row := range t.DataRows {
			rec := map[string]string{constants.ColSourceFile: t.SourceID}
			for i, val := range row {
				val = strings.TrimSpace(val)
				if val == "" {
					continue
				}
				name := ""
				if i < len(headers) {
					name = headers[i]
				}
				if name == "" {
					name = grid.ColumnN(i)
				}
				f.ensureColumn(name)
				if prev, ok := rec[name]; ok && prev != "" && prev != val {
					rec[name] = prev + " | " + val
				} else {
					rec[name] = val
				}
			}
			f.Rows = append(f.Rows, rec)
		}
	}

	for _, fail := range failures {
		f.ensureColumn(constants.ColError)
		f.Rows = append(f.Rows, map[string]string{
			constants.ColSourceFile: fail.SourceID,
			constants.ColError:      fail.Reason,
		})
	}
	return f
}

func (f *Frame) ensureColumn(name string) {
	for _, c := range f.Columns {
		if c == name {
			return
		}
	}
	f.Columns = append(f.Columns, name)
}

// HasColumn reports whether name is a current column.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// NonEmptyCount counts rows with a non-blank value in the column.
func (f *Frame) NonEmptyCount(name string) int {
	n := 0
	for _, row := range f.Rows {
		if strings.TrimSpace(row[name]) != "" {
			n++
		}
	}
	return n
}

// DropColumns removes the named columns and their values.
func (f *Frame) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := f.Columns[:0]
	for _, c := range f.Columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	f.Columns = kept
	for _, row := range f.Rows {
		for n := range drop {
			delete(row, n)
		}
	}
}

// RenameColumn renames old to new, keeping the column position. When new
// already exists the values are folded in, empty target cells first.
func (f *Frame) RenameColumn(old, new string) {
	if old == new || !f.HasColumn(old) {
		return
	}
	exists := f.HasColumn(new)
	for i, c := range f.Columns {
		if c == old {
			if exists {
				f.Columns = append(f.Columns[:i], f.Columns[i+1:]...)
			} else {
				f.Columns[i] = new
			}
			break
		}
	}
	for _, row := range f.Rows {
		val, ok := row[old]
		if !ok {
			continue
		}
		delete(row, old)
		if strings.TrimSpace(row[new]) == "" {
			row[new] = val
		}
	}
}

// SampleValues returns up to limit non-blank trimmed values of a column.
func (f *Frame) SampleValues(name string, limit int) []string {
	var out []string
	for _, row := range f.Rows {
		v := strings.TrimSpace(row[name])
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}
