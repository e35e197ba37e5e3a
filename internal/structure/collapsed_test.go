package structure

import (
	"reflect"
	"testing"
)

func TestIsCollapsed(t *testing.T) {
	blob := "123456789\n987654321\n555555555\n111111111\n222222222"

	tests := []struct {
		name string
		rows [][]string
		want bool
	}{
		{"five bare ids in one cell", [][]string{{blob}}, true},
		{"two columns wide", [][]string{{blob, "names"}}, true},
		{"three columns wide", [][]string{{blob, "a", "b"}}, false},
		{"too few id lines", [][]string{{"123456789\n987654321"}}, false},
		{"normal table", [][]string{{"ID", "Name"}, {"123456789", "Dov"}}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCollapsed(tt.rows); got != tt.want {
				t.Fatalf("IsCollapsed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepairCollapsed(t *testing.T) {
	cell := "ID\nFirst Name\nLast Name\n123456789\nDov\nMendelovich\n1\n987654321\nEyal\nCohen"

	rep := RepairCollapsed([][]string{{cell}})
	if rep == nil {
		t.Fatal("RepairCollapsed() = nil, want repaired table")
	}
	wantHeaders := []string{"ID", "First Name", "Last Name"}
	if !reflect.DeepEqual(rep.Headers, wantHeaders) {
		t.Fatalf("headers = %v, want %v", rep.Headers, wantHeaders)
	}
	wantRows := [][]string{
		{"123456789", "Dov", "Mendelovich"},
		{"987654321", "Eyal", "Cohen"},
	}
	if !reflect.DeepEqual(rep.DataRows, wantRows) {
		t.Fatalf("rows = %v, want %v", rep.DataRows, wantRows)
	}
}

func TestRepairCollapsedDefaultHeaders(t *testing.T) {
	// no header lines at all; the canonical identity headers fill in
	rep := RepairCollapsed([][]string{{"123456789\nDov\nMendelovich\n987654321\nEyal\nCohen"}})
	if rep == nil {
		t.Fatal("RepairCollapsed() = nil, want repaired table")
	}
	if !reflect.DeepEqual(rep.Headers, []string{"ID", "First Name", "Last Name"}) {
		t.Fatalf("headers = %v, want identity defaults", rep.Headers)
	}
	if len(rep.DataRows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rep.DataRows))
	}
}

func TestRepairCollapsedNoRecords(t *testing.T) {
	if rep := RepairCollapsed([][]string{{"no ids here\njust text"}}); rep != nil {
		t.Fatalf("RepairCollapsed() = %v, want nil", rep)
	}
}

func TestRepairCollapsedShortRecord(t *testing.T) {
	// an id followed directly by another id yields a record with empty
	// name fields rather than stealing the next record's lines
	rep := RepairCollapsed([][]string{{"123456789\n987654321\nEyal\nCohen"}})
	if rep == nil {
		t.Fatal("RepairCollapsed() = nil, want repaired table")
	}
	want := [][]string{
		{"123456789", "", ""},
		{"987654321", "Eyal", "Cohen"},
	}
	if !reflect.DeepEqual(rep.DataRows, want) {
		t.Fatalf("rows = %v, want %v", rep.DataRows, want)
	}
}
