package structure

import (
	"reflect"
	"testing"
)

func TestSyntheticHeaders(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want []string
	}{
		{
			"id name other",
			[]string{"123456789", "Dov", "Mendelovich"},
			[]string{"ID", "Name", "Other"},
		},
		{
			"trailing id still wins over other",
			[]string{"Dov", "123456789"},
			[]string{"Name", "ID"},
		},
		{
			"numeric non-id gets positional name",
			[]string{"42", "Dov", "x"},
			[]string{"Column_1", "Name", "Other"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SyntheticHeaders(tt.row); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SyntheticHeaders(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

func TestHandleTransposedKeepsAllRows(t *testing.T) {
	rows := [][]string{
		{"123456789", "Dov", "Mendelovich"},
		{"987654321", "Eyal", "Cohen"},
	}
	table := HandleTransposed("a.jpg", rows)
	if table.SourceID != "a.jpg" {
		t.Fatalf("source id = %q", table.SourceID)
	}
	if !reflect.DeepEqual(table.DataRows, rows) {
		t.Fatalf("rows = %v, want every input row kept as data", table.DataRows)
	}
}

func TestHandleTransposedEmpty(t *testing.T) {
	table := HandleTransposed("a.jpg", nil)
	if len(table.Headers) != 0 || len(table.DataRows) != 0 {
		t.Fatalf("table = %+v, want empty", table)
	}
}
