package classifier

import (
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement"
)

// Engine classifies statement rows with an ordered rule set. Rules are
// evaluated independently: every rule sees every row, so one row can yield a
// transaction per matching rule (a payment row often also carries its charge).
// The engine holds no per-run state; a single Engine is safe for concurrent
// Classify calls.
type Engine struct {
	rules []Rule
}

// NewEngine creates a classification engine with the given rule set.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Classify runs every rule over the full table and returns the concatenated
// matches: all rows for the first rule, then all rows for the second, and so
// on. Output is deterministic for a given table and rule set.
func (e *Engine) Classify(table statement.Table) []Transaction {
	transactions := make([]Transaction, 0, len(table))
	for _, rule := range e.rules {
		for _, row := range table {
			if tx, ok := e.apply(rule, row); ok {
				transactions = append(transactions, tx)
			}
		}
	}
	return transactions
}

func (e *Engine) apply(rule Rule, row statement.Row) (Transaction, bool) {
	match := rule.Pattern.FindStringSubmatch(row.Details)
	if match == nil {
		return Transaction{}, false
	}

	recipientID, recipientName, ok := rule.Extractor(row.Details, match)
	if !ok {
		return Transaction{}, false
	}
	if recipientID == "" {
		recipientID = defaultRecipientID
	}

	return Transaction{
		Category:       rule.Category,
		CompletionTime: row.CompletionTime,
		Amount:         parseAmount(row.Withdrawn),
		RecipientID:    recipientID,
		RecipientName:  recipientName,
		ReceiptID:      row.ReceiptNo,
	}, true
}

// parseAmount parses a sanitized amount cell. Placeholders such as "N/A" and
// any other unparseable value default to zero; a malformed amount never fails
// the row. The sign is discarded: direction is carried by the category.
func parseAmount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Abs().Float64()
	return f
}
