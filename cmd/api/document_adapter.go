package main

import (
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/pdfdoc"
	statementservice "github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement/service"
)

// newDocumentAdapter bridges the concrete PDF reader to the pipeline's
// DocumentReader interface.
func newDocumentAdapter(reader *pdfdoc.Reader) statementservice.DocumentReader {
	return statementservice.DocumentReaderFunc(func(path, password string) (statementservice.Document, error) {
		doc, err := reader.Open(path, password)
		if err != nil {
			return nil, err
		}
		return doc, nil
	})
}
