package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerRow builds the mis-merged header row the extractor produces: all
// column names in the first cell, separated by line breaks.
func headerRow() RawRow {
	return RawRow{strings.Join(Columns, "\n"), "", "", "", "", "", ""}
}

func dataRow(receipt, completed, details, status, paidIn, withdrawn, balance string) RawRow {
	return RawRow{receipt, completed, details, status, paidIn, withdrawn, balance}
}

func TestSanitizePage(t *testing.T) {
	t.Run("derives headers and keeps canonical column set", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			dataRow("ABC123", "2023-04-01 10:00:00", "Merchant Payment to 654321 - SHOP", "Completed", "", "250.00", "1000.00"),
		}

		rows, err := SanitizePage(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		row := rows[0]
		assert.Equal(t, "ABC123", row.ReceiptNo)
		assert.Equal(t, "2023-04-01 10:00:00", row.CompletionTime)
		assert.Equal(t, "Completed", row.TransactionStatus)
		assert.Equal(t, "250.00", row.Withdrawn)
		assert.Equal(t, "1000.00", row.Balance)
	})

	t.Run("flattens wrapped details", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			dataRow("R1", "t", "Pay Bill Online\n123456 - JANE DOE", "Completed", "", "10.00", "90.00"),
		}

		rows, err := SanitizePage(raw)
		require.NoError(t, err)
		assert.Equal(t, "Pay Bill Online 123456 - JANE DOE", rows[0].Details)
	})

	t.Run("splits mis-merged transaction status into status and paid in", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			dataRow("R1", "t", "Funds received from 0700000000", "Completed\n1,500.00", "", "", "2,000.00"),
		}

		rows, err := SanitizePage(raw)
		require.NoError(t, err)
		assert.Equal(t, "Completed", rows[0].TransactionStatus)
		assert.Equal(t, "1500.00", rows[0].PaidIn)
	})

	t.Run("redistributes withdrawn fragments to following rows", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			dataRow("R1", "t1", "Merchant Payment", "Completed", "", "1,200.00\n50.00", "3,000.00\n2,950.00"),
			dataRow("R2", "t2", "Pay Bill Charge", "Completed", "", "", ""),
		}

		rows, err := SanitizePage(raw)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "1200.00", rows[0].Withdrawn)
		assert.Equal(t, "50.00", rows[1].Withdrawn)
		assert.Equal(t, "3000.00", rows[0].Balance)
		assert.Equal(t, "2950.00", rows[1].Balance)
	})

	t.Run("drops fragments past the end of the page", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			dataRow("R1", "t1", "d", "Completed", "", "100.00\n200.00\n300.00", "b"),
		}

		rows, err := SanitizePage(raw)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "100.00", rows[0].Withdrawn)
	})

	t.Run("strips thousands separators from numeric columns", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			dataRow("R1", "t1", "d", "Completed", "12,345.67", "1,000,000.00", "9,999.99"),
		}

		rows, err := SanitizePage(raw)
		require.NoError(t, err)
		assert.Equal(t, "12345.67", rows[0].PaidIn)
		assert.Equal(t, "1000000.00", rows[0].Withdrawn)
		assert.Equal(t, "9999.99", rows[0].Balance)
	})

	t.Run("fails when the header does not split into the canonical count", func(t *testing.T) {
		raw := []RawRow{
			{"Receipt No.\nCompletion Time\nDetails", "", ""},
			{"R1", "t", "d"},
		}

		_, err := SanitizePage(raw)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("fails on an empty page", func(t *testing.T) {
		_, err := SanitizePage(nil)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("fails when a data row is short", func(t *testing.T) {
		raw := []RawRow{
			headerRow(),
			{"R1", "t"},
		}

		_, err := SanitizePage(raw)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		cell := "1,200.00\n50.00"
		raw := []RawRow{
			headerRow(),
			dataRow("R1", "t1", "d", "Completed", "", cell, "b"),
			dataRow("R2", "t2", "d", "Completed", "", "", ""),
		}

		_, err := SanitizePage(raw)
		require.NoError(t, err)
		assert.Equal(t, cell, raw[1][5])
	})
}

func TestConvertRow(t *testing.T) {
	t.Run("defaults missing canonical columns", func(t *testing.T) {
		row, err := ConvertRow(RawRow{"R1", "t"}, []string{ColReceiptNo, ColCompletionTime})
		require.NoError(t, err)
		assert.Equal(t, "R1", row.ReceiptNo)
		assert.Equal(t, "N/A", row.Withdrawn)
		assert.Equal(t, "N/A", row.Balance)
		assert.Equal(t, "N/A", row.PaidIn)
	})

	t.Run("ignores non-canonical headers", func(t *testing.T) {
		row, err := ConvertRow(RawRow{"x", "R1"}, []string{"Mystery", ColReceiptNo})
		require.NoError(t, err)
		assert.Equal(t, "R1", row.ReceiptNo)
	})

	t.Run("fails on short rows", func(t *testing.T) {
		_, err := ConvertRow(RawRow{"only"}, Columns)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})
}

func TestAssemble(t *testing.T) {
	page1 := []Row{{ReceiptNo: "A"}, {ReceiptNo: "B"}}
	page2 := []Row{{ReceiptNo: "C"}}

	table := Assemble([][]Row{page1, page2})

	require.Len(t, table, 3)
	assert.Equal(t, "A", table[0].ReceiptNo)
	assert.Equal(t, "B", table[1].ReceiptNo)
	assert.Equal(t, "C", table[2].ReceiptNo)
}
