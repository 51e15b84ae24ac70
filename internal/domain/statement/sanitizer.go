package statement

import "strings"

// missingCell is the placeholder for columns the extractor did not produce.
const missingCell = "N/A"

// SanitizePage repairs one raw per-page table into canonical rows.
//
// The extraction collaborator reproduces the printed table faithfully, which
// means its output inherits the statement's layout quirks: the header row
// arrives as a single line-break-separated cell, long Details values wrap, and
// amounts that belong to following rows bleed into the current row's cell.
// SanitizePage is a pure transform; the input slice is never mutated.
func SanitizePage(raw []RawRow) ([]Row, error) {
	if len(raw) == 0 || len(raw[0]) == 0 {
		return nil, schemaErrorf("empty page table")
	}

	// The first row is the header, mis-merged into its first cell.
	headers := strings.Split(raw[0][0], "\n")
	if len(headers) != len(Columns) {
		return nil, schemaErrorf("header splits into %d columns, expected %d", len(headers), len(Columns))
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, rr := range raw[1:] {
		row, err := ConvertRow(rr, headers)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	for i := range rows {
		// Wrapped Details text is one logical value, not a row split.
		rows[i].Details = strings.ReplaceAll(rows[i].Details, "\n", " ")

		// A line break inside Transaction Status means the extractor merged the
		// status with the row's own Paid In amount.
		if status, amount, found := strings.Cut(rows[i].TransactionStatus, "\n"); found {
			rows[i].TransactionStatus = status
			rows[i].PaidIn = amount
		}
	}

	// Thousands separators would fail numeric parsing downstream.
	for i := range rows {
		rows[i].Withdrawn = strings.ReplaceAll(rows[i].Withdrawn, ",", "")
		rows[i].Balance = strings.ReplaceAll(rows[i].Balance, ",", "")
		rows[i].PaidIn = strings.ReplaceAll(rows[i].PaidIn, ",", "")
	}

	// A line break inside Withdrawn or Balance means amounts belonging to the
	// following rows were merged into this cell: fragment i belongs to row
	// current+i. Fragments past the end of the page are dropped.
	redistribute(rows, ColWithdrawn)
	redistribute(rows, ColBalance)

	return rows, nil
}

func redistribute(rows []Row, column string) {
	for i := range rows {
		cell := rows[i].Get(column)
		if !strings.Contains(cell, "\n") {
			continue
		}
		for j, fragment := range strings.Split(cell, "\n") {
			if i+j >= len(rows) {
				break
			}
			rows[i+j].set(column, fragment)
		}
	}
}
