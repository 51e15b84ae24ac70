// Package pdfdoc adapts the PDF reading library behind the minimal contract
// the extraction pipeline needs: decrypt-or-fail, page count, and the document
// metadata used to verify the statement issuer. Table geometry extraction is a
// separate collaborator; this package never touches page content.
package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DecryptionError means the supplied password does not open the document.
// Retrying with the same password cannot succeed.
type DecryptionError struct {
	Path string
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("invalid password for %s", e.Path)
}

// FormatError means the document's metadata does not carry the expected
// statement issuer signature.
type FormatError struct {
	Creator string
	Subject string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized statement format (creator %q, subject %q)", e.Creator, e.Subject)
}

// Metadata is the issuer-relevant slice of the document information dictionary.
type Metadata struct {
	Creator string
	Subject string
}

// Document is an opened, decrypted, issuer-verified statement PDF.
type Document struct {
	pageCount int
	meta      Metadata
}

func (d *Document) PageCount() int { return d.pageCount }
func (d *Document) Creator() string { return d.meta.Creator }
func (d *Document) Subject() string { return d.meta.Subject }

// IssuerSignature is the metadata signature a genuine statement carries.
// Matching is case-insensitive substring containment.
type IssuerSignature struct {
	Creator string
	Subject string
}

// Matches reports whether the document metadata carries the signature.
func (sig IssuerSignature) Matches(meta Metadata) bool {
	return containsFold(meta.Creator, sig.Creator) && containsFold(meta.Subject, sig.Subject)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Reader opens statement documents and enforces the issuer signature before
// any page is handed to table extraction.
type Reader struct {
	issuer IssuerSignature
}

// NewReader creates a document reader that accepts only documents carrying
// the given issuer signature.
func NewReader(issuer IssuerSignature) *Reader {
	return &Reader{issuer: issuer}
}

// Open decrypts the document at path with the given password and validates
// its metadata. A wrong password yields a DecryptionError; a metadata
// mismatch yields a FormatError. Both are fatal for the statement.
func (r *Reader) Open(path, password string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat statement file: %w", err)
	}

	// The library re-invokes the password callback after a failed attempt;
	// returning "" on the second call makes it give up instead of looping.
	attempted := false
	reader, err := pdf.NewReaderEncrypted(f, info.Size(), func() string {
		if attempted {
			return ""
		}
		attempted = true
		return password
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, &DecryptionError{Path: path}
		}
		return nil, fmt.Errorf("read statement document: %w", err)
	}

	meta := readMetadata(reader)
	if !r.issuer.Matches(meta) {
		return nil, &FormatError{Creator: meta.Creator, Subject: meta.Subject}
	}

	return &Document{pageCount: reader.NumPage(), meta: meta}, nil
}

func readMetadata(reader *pdf.Reader) (meta Metadata) {
	// A malformed information dictionary must not crash the pipeline; it just
	// fails the issuer check.
	defer func() { _ = recover() }()

	info := reader.Trailer().Key("Info")
	meta.Creator = info.Key("Creator").Text()
	meta.Subject = info.Key("Subject").Text()
	return meta
}
