package normalize

import (
	"reflect"
	"testing"

	"github.com/arielw/tablemend/constants"
	"github.com/arielw/tablemend/internal/grid"
)

func TestBuildFrame(t *testing.T) {
	tables := []grid.CanonicalTable{
		{
			SourceID: "a.jpg",
			Headers:  []string{"ID", "First Name"},
			DataRows: [][]string{{"123456789", "Dov"}},
		},
		{
			SourceID: "b.jpg",
			Headers:  []string{"ID"},
			DataRows: [][]string{{"987654321", "Eyal"}},
		},
	}
	failures := []Failure{{SourceID: "c.jpg", Reason: "no table data"}}

	f := BuildFrame(tables, failures)

	if f.Columns[0] != constants.ColSourceFile {
		t.Fatalf("first column = %q, want %q", f.Columns[0], constants.ColSourceFile)
	}
	if !f.HasColumn("ID") || !f.HasColumn("First Name") {
		t.Fatalf("columns = %v, missing named headers", f.Columns)
	}
	// the cell past b.jpg's single header lands in a positional column
	if !f.HasColumn("Column_2") {
		t.Fatalf("columns = %v, want overflow cell in Column_2", f.Columns)
	}
	if len(f.Rows) != 3 {
		t.Fatalf("rows = %d, want 2 data rows plus 1 failure row", len(f.Rows))
	}
	if f.Rows[1]["Column_2"] != "Eyal" {
		t.Fatalf("overflow cell = %q, want Eyal", f.Rows[1]["Column_2"])
	}

	failRow := f.Rows[2]
	want := map[string]string{
		constants.ColSourceFile: "c.jpg",
		constants.ColError:      "no table data",
	}
	if !reflect.DeepEqual(failRow, want) {
		t.Fatalf("failure row = %v, want %v", failRow, want)
	}
}

func TestBuildFrameJoinsDuplicateHeaders(t *testing.T) {
	tables := []grid.CanonicalTable{{
		SourceID: "a.jpg",
		Headers:  []string{"Phone", "Phone"},
		DataRows: [][]string{{"555-1234", "050-9998888"}},
	}}

	f := BuildFrame(tables, nil)
	if got := f.Rows[0]["Phone"]; got != "555-1234 | 050-9998888" {
		t.Fatalf("joined value = %q", got)
	}
}

func TestBuildFrameNamesBlankHeadersPositionally(t *testing.T) {
	tables := []grid.CanonicalTable{{
		SourceID: "a.jpg",
		Headers:  []string{"Unnamed: 0", "Name"},
		DataRows: [][]string{{"123456789", "Dov"}},
	}}

	f := BuildFrame(tables, nil)
	if !f.HasColumn("Column_1") {
		t.Fatalf("columns = %v, want artifact header replaced by Column_1", f.Columns)
	}
	if f.Rows[0]["Column_1"] != "123456789" {
		t.Fatalf("Column_1 = %q, want 123456789", f.Rows[0]["Column_1"])
	}
}

func TestRenameColumnFoldsIntoExisting(t *testing.T) {
	f := &Frame{
		Columns: []string{"ID", "Notes"},
		Rows: []map[string]string{
			{"ID": "", "Notes": "123456789"},
			{"ID": "987654321", "Notes": "junk"},
		},
	}

	f.RenameColumn("Notes", "ID")

	if !reflect.DeepEqual(f.Columns, []string{"ID"}) {
		t.Fatalf("columns = %v, want folded into ID", f.Columns)
	}
	if f.Rows[0]["ID"] != "123456789" {
		t.Fatalf("empty target cell = %q, want filled from source", f.Rows[0]["ID"])
	}
	if f.Rows[1]["ID"] != "987654321" {
		t.Fatalf("non-empty target cell = %q, want untouched", f.Rows[1]["ID"])
	}
}

func TestDropColumns(t *testing.T) {
	f := &Frame{
		Columns: []string{"A", "B", "C"},
		Rows:    []map[string]string{{"A": "1", "B": "2", "C": "3"}},
	}
	f.DropColumns("A", "C")
	if !reflect.DeepEqual(f.Columns, []string{"B"}) {
		t.Fatalf("columns = %v, want [B]", f.Columns)
	}
	if _, ok := f.Rows[0]["A"]; ok {
		t.Fatal("dropped column value survived in row")
	}
}

func TestSampleValues(t *testing.T) {
	f := &Frame{
		Columns: []string{"ID"},
		Rows: []map[string]string{
			{"ID": " 123456789 "}, {"ID": ""}, {"ID": "987654321"}, {"ID": "555555555"},
		},
	}
	got := f.SampleValues("ID", 2)
	if !reflect.DeepEqual(got, []string{"123456789", "987654321"}) {
		t.Fatalf("SampleValues() = %v", got)
	}
}
