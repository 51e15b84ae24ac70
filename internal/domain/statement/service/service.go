// Package service drives the statement extraction pipeline: decrypt and
// validate the document, extract and sanitize each page in order, assemble the
// statement table, and classify it.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/classifier"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement"
)

// Document is the decrypted, issuer-verified statement the pipeline iterates.
type Document interface {
	PageCount() int
}

// DocumentReader opens and validates a statement document. Implementations
// fail with pdfdoc.DecryptionError for a wrong password and pdfdoc.FormatError
// for a document that is not a recognized statement.
type DocumentReader interface {
	Open(path, password string) (Document, error)
}

// DocumentReaderFunc adapts a plain open function to a DocumentReader.
type DocumentReaderFunc func(path, password string) (Document, error)

func (f DocumentReaderFunc) Open(path, password string) (Document, error) {
	return f(path, password)
}

// TableExtractor produces the raw cell rows of one statement page.
type TableExtractor interface {
	ExtractPage(ctx context.Context, path, password string, page int) ([]statement.RawRow, error)
}

// Service runs the extraction pipeline for one statement per call. It holds
// no per-call state, so a single Service serves concurrent statements.
type Service struct {
	docs   DocumentReader
	tables TableExtractor
	engine *classifier.Engine
	logger *slog.Logger
}

// NewService creates the pipeline service.
func NewService(docs DocumentReader, tables TableExtractor, engine *classifier.Engine, logger *slog.Logger) *Service {
	return &Service{
		docs:   docs,
		tables: tables,
		engine: engine,
		logger: logger,
	}
}

// Extract converts the statement at path into classified transactions.
//
// Pages are processed strictly in order: the sanitizer's multi-row repair
// reasons about "the next row" within a page, and the assembled table must
// preserve the printed chronology. reporter is invoked after each page is
// merged; it may be nil.
func (s *Service) Extract(ctx context.Context, path, password string, reporter statement.ProgressReporter) ([]classifier.Transaction, error) {
	doc, err := s.docs.Open(path, password)
	if err != nil {
		return nil, err
	}

	total := doc.PageCount()
	s.logger.Info("statement opened", slog.String("path", path), slog.Int("pages", total))

	pages := make([][]statement.Row, 0, total)
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.tables.ExtractPage(ctx, path, password, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		rows, err := statement.SanitizePage(raw)
		if err != nil {
			// A malformed page would misalign every row after it, so the
			// whole statement aborts rather than silently dropping the page.
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		pages = append(pages, rows)
		s.report(reporter, page, total)
	}

	table := statement.Assemble(pages)
	transactions := s.engine.Classify(table)

	s.logger.Info("statement classified",
		slog.Int("rows", len(table)),
		slog.Int("transactions", len(transactions)),
	)
	return transactions, nil
}

// report delivers a progress update. Reporting is observational: a panicking
// reporter is logged and the pipeline continues.
func (s *Service) report(reporter statement.ProgressReporter, done, total int) {
	if reporter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("progress reporter failed",
				slog.Int("pages_done", done),
				slog.Any("panic", r),
			)
		}
	}()
	reporter.Report(done, total)
}
