package normalize

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/arielw/tablemend/constants"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDropDataNamedColumns(t *testing.T) {
	f := &Frame{
		Columns: []string{constants.ColSourceFile, "12/05/2023", "Name"},
		Rows: []map[string]string{
			{constants.ColSourceFile: "a.jpg", "12/05/2023": "x", "Name": "Dov"},
		},
	}
	testNormalizer().dropDataNamedColumns(f)
	if f.HasColumn("12/05/2023") {
		t.Fatalf("columns = %v, want date-named column dropped", f.Columns)
	}
	if !f.HasColumn("Name") || !f.HasColumn(constants.ColSourceFile) {
		t.Fatalf("columns = %v, dropped too much", f.Columns)
	}
}

func TestPromoteDataHeaders(t *testing.T) {
	f := &Frame{
		Columns: []string{"123456789", "987654321", "5551234"},
		Rows: []map[string]string{
			{"123456789": "ID", "987654321": "First Name", "5551234": "Last Name"},
			{"123456789": "111111111", "987654321": "Noa", "5551234": "Levi"},
		},
	}
	testNormalizer().promoteDataHeaders(f)

	for _, want := range []string{"ID", "First Name", "Last Name"} {
		if !f.HasColumn(want) {
			t.Fatalf("columns = %v, want %q promoted from data row", f.Columns, want)
		}
	}
	if len(f.Rows) != 2 {
		t.Fatalf("rows = %d, want promoted row replaced by old headers", len(f.Rows))
	}
	// the former header texts come back as the first data row
	if f.Rows[0]["ID"] != "123456789" {
		t.Fatalf("pushed-down row = %v", f.Rows[0])
	}
	if f.Rows[1]["First Name"] != "Noa" {
		t.Fatalf("data row lost in promotion: %v", f.Rows[1])
	}
}

func TestPromoteDataHeadersReusesOldHeaderName(t *testing.T) {
	// the promoted row hands "First Name" to a digit-named column while
	// the column currently called "First Name" moves to "Last Name".
	// Renames run in column order, so the old name is free by the time
	// it is reassigned instead of folding two columns together.
	f := &Frame{
		Columns: []string{"First Name", "123456789", "987654321"},
		Rows: []map[string]string{
			{"First Name": "Last Name", "123456789": "First Name", "987654321": "ID"},
			{"First Name": "Mendelovich", "123456789": "Dov", "987654321": "111111111"},
		},
	}
	testNormalizer().promoteDataHeaders(f)

	want := []string{"Last Name", "First Name", "ID"}
	if !reflect.DeepEqual(f.Columns, want) {
		t.Fatalf("columns = %v, want %v", f.Columns, want)
	}
	if f.Rows[1]["First Name"] != "Dov" || f.Rows[1]["Last Name"] != "Mendelovich" || f.Rows[1]["ID"] != "111111111" {
		t.Fatalf("data row = %v, columns folded during rename", f.Rows[1])
	}
	if f.Rows[0]["First Name"] != "123456789" {
		t.Fatalf("pushed-down row = %v", f.Rows[0])
	}
}

func TestPromoteDataHeadersLeavesCleanFrames(t *testing.T) {
	f := &Frame{
		Columns: []string{"ID", "First Name", "Last Name"},
		Rows: []map[string]string{
			{"ID": "123456789", "First Name": "Dov", "Last Name": "Mendelovich"},
			{"ID": "987654321", "First Name": "Eyal", "Last Name": "Cohen"},
		},
	}
	before := append([]string(nil), f.Columns...)
	testNormalizer().promoteDataHeaders(f)
	if !reflect.DeepEqual(f.Columns, before) {
		t.Fatalf("columns changed on a clean frame: %v", f.Columns)
	}
	if len(f.Rows) != 2 {
		t.Fatalf("rows = %d, want untouched", len(f.Rows))
	}
}

func TestFixSpreadsheetHeaders(t *testing.T) {
	f := &Frame{
		Columns: []string{"A", "B", "C"},
		Rows: []map[string]string{
			{"A": "ID", "B": "First Name", "C": "Last Name"},
			{"A": "123456789", "B": "Dov", "C": "Mendelovich"},
		},
	}
	testNormalizer().fixSpreadsheetHeaders(f)

	for _, want := range []string{"ID", "First Name", "Last Name"} {
		if !f.HasColumn(want) {
			t.Fatalf("columns = %v, want %q from row 0", f.Columns, want)
		}
	}
	if len(f.Rows) != 1 {
		t.Fatalf("rows = %d, want header row consumed", len(f.Rows))
	}
	if f.Rows[0]["ID"] != "123456789" {
		t.Fatalf("data row = %v", f.Rows[0])
	}
}

func TestDropSpreadsheetLetterColumns(t *testing.T) {
	f := &Frame{
		Columns: []string{"A", "Address"},
		Rows:    []map[string]string{{"A": "x", "Address": "Haifa"}},
	}
	testNormalizer().dropSpreadsheetLetterColumns(f)
	if f.HasColumn("A") || !f.HasColumn("Address") {
		t.Fatalf("columns = %v, want bare letter dropped", f.Columns)
	}
}

func TestDropNearEmptyColumns(t *testing.T) {
	rows := make([]map[string]string, 12)
	for i := range rows {
		rows[i] = map[string]string{"Name": "x"}
	}
	rows[0][""] = "stray"
	rows[0]["5"] = "1"
	rows[1]["5"] = "2"
	f := &Frame{Columns: []string{"", "5", "Name"}, Rows: rows}

	testNormalizer().dropNearEmptyColumns(f)

	if f.HasColumn("") {
		t.Fatalf("columns = %v, want unnamed near-empty column dropped", f.Columns)
	}
	if f.HasColumn("5") {
		t.Fatalf("columns = %v, want digit-named sparse column dropped", f.Columns)
	}
	if !f.HasColumn("Name") {
		t.Fatalf("columns = %v, dropped too much", f.Columns)
	}
}

func TestDropNearEmptyColumnsBlankNameAlwaysDropped(t *testing.T) {
	rows := make([]map[string]string, 12)
	for i := range rows {
		rows[i] = map[string]string{"Name": "x", "": "filled"}
	}
	f := &Frame{Columns: []string{"", "Name"}, Rows: rows}

	testNormalizer().dropNearEmptyColumns(f)

	if f.HasColumn("") {
		t.Fatalf("columns = %v, want blank-named column dropped despite being full", f.Columns)
	}
	if !f.HasColumn("Name") {
		t.Fatalf("columns = %v, dropped too much", f.Columns)
	}
}

func TestDropLowDensityColumns(t *testing.T) {
	rows := make([]map[string]string, 4)
	for i := range rows {
		rows[i] = map[string]string{"Dense": "x"}
	}
	rows[0]["Sparse"] = "a"
	rows[1]["Sparse"] = "b"
	f := &Frame{Columns: []string{"Dense", "Sparse"}, Rows: rows}

	testNormalizer().dropLowDensityColumns(f)

	if f.HasColumn("Sparse") {
		t.Fatalf("columns = %v, want column with 2 values dropped", f.Columns)
	}
	if !f.HasColumn("Dense") {
		t.Fatalf("columns = %v, want dense column kept", f.Columns)
	}
}

func TestFixMisplacedIDColumnsRenames(t *testing.T) {
	f := &Frame{
		Columns: []string{"Notes"},
		Rows: []map[string]string{
			{"Notes": "123456789"}, {"Notes": "987654321"}, {"Notes": "555555555"},
		},
	}
	testNormalizer().fixMisplacedIDColumns(f)

	if !f.HasColumn("ID") || f.HasColumn("Notes") {
		t.Fatalf("columns = %v, want Notes renamed to ID", f.Columns)
	}
	if f.Rows[0]["ID"] != "123456789" {
		t.Fatalf("row = %v", f.Rows[0])
	}
}

func TestFixMisplacedIDColumnsMergesIntoExisting(t *testing.T) {
	f := &Frame{
		Columns: []string{"ID", "Notes"},
		Rows: []map[string]string{
			{"Notes": "123456789"},
			{"Notes": "111111111"},
			{"Notes": "222222222"},
			{"ID": "987654321", "Notes": "555555555"},
		},
	}
	testNormalizer().fixMisplacedIDColumns(f)

	if f.Rows[0]["ID"] != "123456789" {
		t.Fatalf("empty ID cell = %q, want filled from Notes", f.Rows[0]["ID"])
	}
	if _, ok := f.Rows[0]["Notes"]; ok {
		t.Fatal("moved value should leave the source cell")
	}
	// a row whose ID is already set keeps both values
	if f.Rows[3]["ID"] != "987654321" || f.Rows[3]["Notes"] != "555555555" {
		t.Fatalf("occupied row = %v, want untouched", f.Rows[3])
	}
}

func TestResolveIDRowNumberConflict(t *testing.T) {
	n := testNormalizer()

	t.Run("sequential small integers stay row numbers", func(t *testing.T) {
		f := &Frame{
			Columns: []string{"Number"},
			Rows: []map[string]string{
				{"Number": "1"}, {"Number": "2"}, {"Number": "3"}, {"Number": "4"},
			},
		}
		matches := map[string][]string{"ID": {"Number"}, "Row Number": {"Number"}}
		n.resolveIDRowNumberConflict(f, matches)
		if len(matches["ID"]) != 0 {
			t.Fatalf("matches[ID] = %v, want column released", matches["ID"])
		}
		if !reflect.DeepEqual(matches["Row Number"], []string{"Number"}) {
			t.Fatalf("matches[Row Number] = %v", matches["Row Number"])
		}
	})

	t.Run("long digit strings stay IDs", func(t *testing.T) {
		f := &Frame{
			Columns: []string{"Number"},
			Rows: []map[string]string{
				{"Number": "123456789"}, {"Number": "987654321"}, {"Number": "555555555"},
			},
		}
		matches := map[string][]string{"ID": {"Number"}, "Row Number": {"Number"}}
		n.resolveIDRowNumberConflict(f, matches)
		if len(matches["Row Number"]) != 0 {
			t.Fatalf("matches[Row Number] = %v, want column released", matches["Row Number"])
		}
		if !reflect.DeepEqual(matches["ID"], []string{"Number"}) {
			t.Fatalf("matches[ID] = %v", matches["ID"])
		}
	})

	t.Run("unclear defaults to row numbers", func(t *testing.T) {
		f := &Frame{
			Columns: []string{"Number"},
			Rows: []map[string]string{
				{"Number": "12"}, {"Number": "34"}, {"Number": "56"},
			},
		}
		matches := map[string][]string{"ID": {"Number"}, "Row Number": {"Number"}}
		n.resolveIDRowNumberConflict(f, matches)
		if len(matches["ID"]) != 0 {
			t.Fatalf("matches[ID] = %v, want column released", matches["ID"])
		}
	})
}

func TestMergeMatchedColumns(t *testing.T) {
	n := testNormalizer()
	f := &Frame{
		Columns: []string{"Phone", "טלפון"},
		Rows: []map[string]string{
			{"Phone": "555-1234", "טלפון": "050-9998888"},
			{"Phone": "555-0000", "טלפון": "555-0000"},
			{"טלפון": "052-1112222"},
		},
	}
	matches := n.findMatchingColumns(f.Columns)
	n.mergeMatchedColumns(f, matches)

	if !f.HasColumn("Phone Number") || f.HasColumn("Phone") || f.HasColumn("טלפון") {
		t.Fatalf("columns = %v, want both merged into Phone Number", f.Columns)
	}
	if got := f.Rows[0]["Phone Number"]; got != "555-1234 | 050-9998888" {
		t.Fatalf("conflicting values = %q, want pipe-joined in column order", got)
	}
	if got := f.Rows[1]["Phone Number"]; got != "555-0000" {
		t.Fatalf("identical values = %q, want deduplicated", got)
	}
	if got := f.Rows[2]["Phone Number"]; got != "052-1112222" {
		t.Fatalf("single value = %q", got)
	}
}

func TestReorderColumns(t *testing.T) {
	f := &Frame{
		Columns: []string{"Extra", "Last Name", constants.ColSourceFile, "ID", "First Name"},
	}
	testNormalizer().reorderColumns(f)
	want := []string{constants.ColSourceFile, "ID", "First Name", "Last Name", "Extra"}
	if !reflect.DeepEqual(f.Columns, want) {
		t.Fatalf("columns = %v, want %v", f.Columns, want)
	}
}

func TestPostProcessIdentity(t *testing.T) {
	f := &Frame{
		Columns: []string{"Employee Number", "ID"},
		Rows: []map[string]string{
			{"Employee Number": "02/911490"},
			{"Employee Number": "12345678", "ID": "4H"},
			{"Employee Number": "1234567", "ID": ""},
			{"Employee Number": "987654321", "ID": "123456789"},
		},
	}
	testNormalizer().postProcessIdentity(f)

	if f.Rows[0]["ID"] != "02/911490" {
		t.Fatalf("slash-form employee number = %q, want moved into empty ID", f.Rows[0]["ID"])
	}
	if f.Rows[1]["ID"] != "12345678" {
		t.Fatalf("garbage ID = %q, want replaced by employee number", f.Rows[1]["ID"])
	}
	if f.Rows[2]["ID"] != "" {
		t.Fatalf("short employee number moved: %v", f.Rows[2])
	}
	if f.Rows[3]["ID"] != "123456789" || f.Rows[3]["Employee Number"] != "987654321" {
		t.Fatalf("valid row changed: %v", f.Rows[3])
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	f := &Frame{
		Columns: []string{constants.ColSourceFile, "שם פרטי", "תז", "A"},
		Rows: []map[string]string{
			{constants.ColSourceFile: "a.jpg", "שם פרטי": "Dov", "תז": "123456789", "A": "x"},
			{constants.ColSourceFile: "a.jpg", "שם פרטי": "Eyal", "תז": "987654321"},
			{constants.ColSourceFile: "b.jpg", "שם פרטי": "Noa", "תז": "555555555"},
		},
	}
	got := testNormalizer().Normalize(f)

	want := []string{constants.ColSourceFile, "ID", "First Name"}
	if !reflect.DeepEqual(got.Columns, want) {
		t.Fatalf("columns = %v, want %v", got.Columns, want)
	}
	if got.Rows[0]["ID"] != "123456789" || got.Rows[0]["First Name"] != "Dov" {
		t.Fatalf("row = %v", got.Rows[0])
	}
}
