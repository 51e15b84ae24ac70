// Package export renders classified transactions into downloadable formats.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/classifier"
)

// Format identifies a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// columns is the export column order, matching the JSON field order of the
// API response.
var columns = []string{"category", "completion_time", "amount", "recipient_id", "recipient_name", "receipt_id"}

// ContentType returns the MIME type for a format.
func ContentType(f Format) string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Write renders the transactions in the given format.
func Write(w io.Writer, f Format, transactions []classifier.Transaction) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, transactions)
	case FormatXLSX:
		return WriteXLSX(w, transactions)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteCSV writes the transactions as CSV, one row per transaction, with a
// header row from the struct tags.
func WriteCSV(w io.Writer, transactions []classifier.Transaction) error {
	if err := gocsv.Marshal(&transactions, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the transactions as a single-sheet workbook.
func WriteXLSX(w io.Writer, transactions []classifier.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, tx := range transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("write xlsx row: %w", err)
		}
		row := []interface{}{
			string(tx.Category),
			tx.CompletionTime,
			tx.Amount,
			tx.RecipientID,
			tx.RecipientName,
			tx.ReceiptID,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
