package statement

import "log/slog"

// ProgressReporter receives page-level progress while a statement is being
// extracted. It is a capability provided by the caller; the pipeline invokes
// it once per page, after that page's sanitized rows are merged into the
// table. Reporting is purely observational and must never block or abort the
// extraction.
type ProgressReporter interface {
	Report(done, total int)
}

// ReporterFunc adapts a plain function to a ProgressReporter.
type ReporterFunc func(done, total int)

func (f ReporterFunc) Report(done, total int) { f(done, total) }

// NopReporter discards progress updates.
var NopReporter ProgressReporter = ReporterFunc(func(int, int) {})

// LogReporter reports progress through a structured logger.
func LogReporter(logger *slog.Logger) ProgressReporter {
	return ReporterFunc(func(done, total int) {
		logger.Info("statement page processed",
			slog.Int("pages_done", done),
			slog.Int("pages_total", total),
		)
	})
}
