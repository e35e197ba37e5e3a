// mappingcheck inspects the semantic column mapping and past export
// workbooks: show the active mapping, validate a mapping file, or list the
// columns of an exported workbook that no mapping entry covers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/arielw/tablemend/internal/export"
	"github.com/arielw/tablemend/internal/normalize"
)

func main() {
	var (
		mappingPath = flag.String("mapping", "", "column mapping JSON (empty = built-in default)")
		validate    = flag.Bool("validate", false, "validate the mapping file and exit")
		analyze     = flag.String("analyze", "", "XLSX export to scan for unmapped columns")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	mapping, err := normalize.LoadMapping(*mappingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapping error: %v\n", err)
		os.Exit(1)
	}
	if *validate {
		fmt.Printf("mapping OK: %d canonical names\n", len(mapping.Names))
		return
	}

	if *analyze != "" {
		headers, err := export.ReadHeaders(*analyze)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			os.Exit(1)
		}
		norm := normalize.NewNormalizer(mapping, logger)
		frame := &normalize.Frame{Columns: headers}
		unknown := norm.UnknownColumns(frame)
		if len(unknown) == 0 {
			fmt.Println("all columns covered by the mapping")
			return
		}
		fmt.Println("unmapped columns:")
		for _, col := range unknown {
			fmt.Printf("  %s\n", col)
		}
		return
	}

	for _, name := range mapping.Names {
		fmt.Printf("%s:\n", name)
		for _, v := range mapping.Variants[name] {
			fmt.Printf("  - %q\n", v)
		}
	}
}
