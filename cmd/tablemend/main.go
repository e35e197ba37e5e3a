package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/arielw/tablemend/internal/cache"
	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/export"
	"github.com/arielw/tablemend/internal/grid"
	"github.com/arielw/tablemend/internal/ingest"
	"github.com/arielw/tablemend/internal/normalize"
	"github.com/arielw/tablemend/internal/ocr"
	"github.com/arielw/tablemend/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir      = flag.String("dir", "", "directory of scanned documents to process (required)")
		out      = flag.String("o", "", "output XLSX path (defaults to <dir>/../ocr_results.xlsx)")
		limit    = flag.Int("limit", 0, "process at most N documents (0 = all)")
		workers  = flag.Int("workers", 0, "worker pool size (overrides PIPELINE_WORKERS)")
		cacheOff = flag.Bool("no-cache", false, "disable the content-hash result cache")
		mapping  = flag.String("mapping", "", "column mapping JSON (overrides COLUMN_MAPPING)")
		backend  = flag.String("backend", "", "ocr backend: azure or tesseract (overrides OCR_BACKEND)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: -dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "ocr_results.xlsx")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *backend != "" {
		cfg.OCR.Backend = *backend
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *mapping != "" {
		cfg.Mapping.Path = *mapping
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	ctx := common.WithRunID(context.Background(), runID)
	logger.Info("starting corpus run", "run_id", runID, "dir", *dir, "backend", cfg.OCR.Backend)

	colMapping, err := normalize.LoadMapping(cfg.Mapping.Path)
	if err != nil {
		logger.Error("failed to load column mapping", "error", err)
		os.Exit(1)
	}

	backendClient, err := ocr.NewBackend(cfg.OCR, logger)
	if err != nil {
		logger.Error("failed to build ocr backend", "error", err)
		os.Exit(1)
	}

	var store *cache.Store
	if !*cacheOff {
		store, err = cache.Open(cfg.Cache.Path, logger)
		if err != nil {
			logger.Error("failed to open result cache", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	scanner := ingest.NewScanner(logger)
	scanner.MaxFileSize = cfg.Pipeline.MaxFileSize
	docs, stats, err := scanner.ScanDirectory(ctx, *dir)
	if err != nil {
		logger.Error("directory scan failed", "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete", "matched", stats.Matched, "scanned", stats.Scanned,
		"skipped", stats.Skipped, "failed", stats.Failed, "too_large", stats.TooLarge)
	if *limit > 0 && len(docs) > *limit {
		docs = docs[:*limit]
	}
	if len(docs) == 0 {
		logger.Warn("no documents to process")
		os.Exit(0)
	}

	proc := pipeline.NewProcessor(backendClient, store, logger)
	queue := pipeline.NewQueue(proc, logger,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithQueueSize(cfg.Pipeline.QueueSize),
		pipeline.WithDocTimeout(cfg.Pipeline.DocTimeout),
	)

	go func() {
		for _, doc := range docs {
			_ = queue.Enqueue(ctx, doc)
		}
		queue.Shutdown(ctx)
	}()

	var tables []grid.CanonicalTable
	var failures []normalize.Failure
	processed, cached := 0, 0
	for outcome := range queue.Results() {
		processed++
		if outcome.Cached {
			cached++
		}
		if outcome.Err != nil {
			failures = append(failures, normalize.Failure{
				SourceID: filepath.Base(outcome.Doc.Path),
				Reason:   outcome.Err.Error(),
			})
			continue
		}
		tables = append(tables, *outcome.Table)
	}
	logger.Info("per-document pass complete",
		"processed", processed, "tables", len(tables), "failed", len(failures), "cached", cached)

	// corpus-wide pass is single threaded; merges need global visibility
	frame := normalize.BuildFrame(tables, failures)
	normalizer := normalize.NewNormalizer(colMapping, logger)
	frame = normalizer.Normalize(frame)

	data, err := export.NewService(logger).WriteXLSX(frame)
	if err != nil {
		logger.Error("xlsx export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("writing output file failed", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nResults written to %s\n", *out)
	fmt.Printf("Documents: %d processed, %d tables, %d errors\n", processed, len(tables), len(failures))
	fmt.Println("\nColumn fill:")
	for _, col := range normalize.Summarize(frame) {
		fmt.Printf("  %-24s %d\n", col.Name, col.NonEmpty)
	}
	if unknown := normalizer.UnknownColumns(frame); len(unknown) > 0 {
		fmt.Println("\nUnmapped columns (mapping candidates):")
		for _, col := range unknown {
			fmt.Printf("  %s\n", col)
		}
	}
}
