package normalize

// ColumnSummary reports a column's fill level for the run report.
type ColumnSummary struct {
	Name     string
	NonEmpty int
}

// Summarize returns per-column non-empty counts in column order.
func Summarize(f *Frame) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(f.Columns))
	for _, col := range f.Columns {
		out = append(out, ColumnSummary{Name: col, NonEmpty: f.NonEmptyCount(col)})
	}
	return out
}

// UnknownColumns lists current columns that match no canonical mapping
// entry, as candidates for new mapping variants.
func (n *Normalizer) UnknownColumns(f *Frame) []string {
	matched := map[string]bool{}
	for _, cols := range n.findMatchingColumns(f.Columns) {
		for _, c := range cols {
			matched[c] = true
		}
	}
	var unknown []string
	for _, col := range f.Columns {
		if !protected(col) && !matched[col] && !contains(n.mapping.Names, col) {
			unknown = append(unknown, col)
		}
	}
	return unknown
}
