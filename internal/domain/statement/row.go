// Package statement implements the statement normalization core: the canonical
// row schema, the per-page sanitizer that repairs raw extracted tables, and the
// assembler that concatenates pages into one logical statement table.
package statement

import (
	"fmt"
	"strings"
)

// Canonical column names, in statement order. Every sanitized row carries
// exactly this column set regardless of which page it came from.
const (
	ColReceiptNo         = "Receipt No."
	ColCompletionTime    = "Completion Time"
	ColDetails           = "Details"
	ColTransactionStatus = "Transaction Status"
	ColPaidIn            = "Paid In"
	ColWithdrawn         = "Withdrawn"
	ColBalance           = "Balance"
)

// Columns is the canonical column set in order.
var Columns = []string{
	ColReceiptNo,
	ColCompletionTime,
	ColDetails,
	ColTransactionStatus,
	ColPaidIn,
	ColWithdrawn,
	ColBalance,
}

// RawRow is one physical table row as produced by the table-extraction
// collaborator: ordered cell text, positionally aligned with the page's
// derived header row.
type RawRow []string

// Row is a sanitized statement line with the canonical column set.
type Row struct {
	ReceiptNo         string
	CompletionTime    string
	Details           string
	TransactionStatus string
	PaidIn            string
	Withdrawn         string
	Balance           string
}

// Table is an ordered sequence of sanitized rows covering the whole statement,
// in page order then in-page order.
type Table []Row

// SchemaError reports a raw table whose shape does not match the expected
// statement layout. It aborts the whole extraction: rows downstream of a
// malformed page would misalign.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("statement schema: %s", e.Reason)
}

// schemaErrorf builds a SchemaError from a format string.
func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// Get returns the named canonical column of the row.
func (r *Row) Get(column string) string {
	switch column {
	case ColReceiptNo:
		return r.ReceiptNo
	case ColCompletionTime:
		return r.CompletionTime
	case ColDetails:
		return r.Details
	case ColTransactionStatus:
		return r.TransactionStatus
	case ColPaidIn:
		return r.PaidIn
	case ColWithdrawn:
		return r.Withdrawn
	case ColBalance:
		return r.Balance
	}
	return ""
}

// set assigns the named canonical column of the row.
func (r *Row) set(column, value string) {
	switch column {
	case ColReceiptNo:
		r.ReceiptNo = value
	case ColCompletionTime:
		r.CompletionTime = value
	case ColDetails:
		r.Details = value
	case ColTransactionStatus:
		r.TransactionStatus = value
	case ColPaidIn:
		r.PaidIn = value
	case ColWithdrawn:
		r.Withdrawn = value
	case ColBalance:
		r.Balance = value
	}
}

// ConvertRow aligns a raw row positionally against the given header list and
// produces a canonical Row. Headers that are not canonical column names are
// ignored; canonical columns missing from the headers default to "N/A".
func ConvertRow(raw RawRow, headers []string) (Row, error) {
	if len(raw) < len(headers) {
		return Row{}, schemaErrorf("row has %d cells, expected %d", len(raw), len(headers))
	}

	row := Row{
		ReceiptNo:         missingCell,
		CompletionTime:    missingCell,
		Details:           missingCell,
		TransactionStatus: missingCell,
		PaidIn:            missingCell,
		Withdrawn:         missingCell,
		Balance:           missingCell,
	}
	for i, name := range headers {
		row.set(strings.TrimSpace(name), raw[i])
	}
	return row, nil
}
