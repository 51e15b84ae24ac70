package statement

// Assemble concatenates per-page sanitized rows, in page order, into one
// statement table. No deduplication and no reordering: row order is the
// chronological order of the printed statement.
func Assemble(pages [][]Row) Table {
	size := 0
	for _, page := range pages {
		size += len(page)
	}
	table := make(Table, 0, size)
	for _, page := range pages {
		table = append(table, page...)
	}
	return table
}
