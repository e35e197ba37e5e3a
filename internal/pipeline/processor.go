// Package pipeline drives the per-document path from bytes to a canonical
// table: cache lookup, OCR, structural repair, header detection and column
// reordering. Failures are per-document outcomes, never fatal to the run.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/arielw/tablemend/constants"
	"github.com/arielw/tablemend/internal/cache"
	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/grid"
	"github.com/arielw/tablemend/internal/ingest"
	"github.com/arielw/tablemend/internal/ocr"
	"github.com/arielw/tablemend/internal/structure"
	"github.com/arielw/tablemend/internal/textextract"
)

// Outcome is the result of processing one document. Exactly one of Table
// and Err is meaningful; an errored document still reaches the output as
// an error-marker row.
type Outcome struct {
	Doc    ingest.Document
	Table  *grid.CanonicalTable
	Rule   string
	Cached bool
	Err    error
}

// Processor runs the per-document pipeline. Stateless apart from its
// collaborators; safe to share between workers.
type Processor struct {
	backend ocr.Backend
	store   *cache.Store // nil disables caching
	logger  *slog.Logger
}

func NewProcessor(backend ocr.Backend, store *cache.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{backend: backend, store: store, logger: logger}
}

// ProcessDocument takes one document through analysis and structure
// recovery. The source identifier of the resulting table is the document's
// base filename.
func (p *Processor) ProcessDocument(ctx context.Context, doc ingest.Document) Outcome {
	out := Outcome{Doc: doc}
	sourceID := filepath.Base(doc.Path)

	tables, text, cached, err := p.analyze(ctx, doc)
	if err != nil {
		out.Err = err
		return out
	}
	out.Cached = cached

	if len(tables) == 0 {
		recovered, patternName := textextract.Recover(text)
		if recovered == nil {
			out.Err = common.ErrNoTableData
			return out
		}
		p.logger.Info("recovered table from page text",
			"source", sourceID, "pattern", patternName, "rows", recovered.RowCount)
		tables = []grid.RawTable{*recovered}
	}

	// Only table 0 is consolidated when a document carries several.
	rows := tables[0].Rows()
	if len(rows) == 0 {
		out.Err = common.ErrNoTableData
		return out
	}

	var table grid.CanonicalTable
	if structure.IsCollapsed(rows) {
		repaired := structure.RepairCollapsed(rows)
		if repaired == nil {
			out.Err = common.ErrUnrepairableCollapse
			return out
		}
		out.Rule = "collapsed-repair"
		table = grid.CanonicalTable{
			SourceID: sourceID,
			Headers:  repaired.Headers,
			DataRows: repaired.DataRows,
		}
	} else {
		det, err := structure.Detect(rows)
		if err != nil {
			out.Err = err
			return out
		}
		out.Rule = det.Rule
		if det.Rule == "default" {
			p.logger.Warn("structure detection fell through to default",
				"source", sourceID, "error", common.ErrAmbiguousStructure)
		}
		if det.Transposed {
			table = structure.HandleTransposed(sourceID, det.DataRows)
		} else {
			table = grid.CanonicalTable{
				SourceID: sourceID,
				Headers:  det.Headers,
				DataRows: det.DataRows,
			}
		}
	}

	table.Headers, table.DataRows = structure.Reorder(table.Headers, table.DataRows)
	out.Table = &table
	return out
}

// analyze returns the document's raw tables and page text, consulting the
// content-hash cache first. Cache write failures are logged and ignored;
// losing a cache entry must not fail the document.
func (p *Processor) analyze(ctx context.Context, doc ingest.Document) ([]grid.RawTable, string, bool, error) {
	if p.store != nil {
		entry, err := p.store.Get(ctx, doc.HashHex)
		if err != nil {
			p.logger.Warn("cache lookup failed", "path", doc.Path, "error", err)
		} else if entry != nil {
			tables, err := ocr.DecodePayload(entry.Payload)
			if err != nil {
				p.logger.Warn("discarding unreadable cache entry", "hash", doc.HashHex, "error", err)
			} else {
				return tables, entry.Text, true, nil
			}
		}
	}

	res, err := p.backend.AnalyzeTables(ctx, doc.Path)
	if err != nil {
		return nil, "", false, err
	}

	if p.store != nil {
		status := constants.DocStatusOK
		if len(res.Tables) == 0 {
			status = constants.DocStatusNoTables
		}
		payload, err := ocr.EncodePayload(res.Tables)
		if err == nil {
			err = p.store.Put(ctx, cache.Entry{
				Hash:    doc.HashHex,
				Backend: p.backend.Name(),
				Payload: payload,
				Text:    res.Text,
				Status:  string(status),
			})
		}
		if err != nil {
			p.logger.Warn("cache write failed", "hash", doc.HashHex, "error", err)
		}
	}
	return res.Tables, res.Text, false, nil
}

// IsDocumentError reports whether err is one of the recoverable
// per-document outcomes rather than an infrastructure failure.
func IsDocumentError(err error) bool {
	return errors.Is(err, common.ErrNoTableData) ||
		errors.Is(err, common.ErrMalformedTable) ||
		errors.Is(err, common.ErrUnrepairableCollapse) ||
		errors.Is(err, common.ErrAmbiguousStructure)
}
