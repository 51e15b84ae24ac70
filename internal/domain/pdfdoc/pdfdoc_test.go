package pdfdoc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerSignature_Matches(t *testing.T) {
	sig := IssuerSignature{Creator: "Safaricom", Subject: "M-PESA Statement"}

	tests := []struct {
		name string
		meta Metadata
		want bool
	}{
		{
			name: "exact signature",
			meta: Metadata{Creator: "Safaricom", Subject: "M-PESA Statement"},
			want: true,
		},
		{
			name: "case differences are ignored",
			meta: Metadata{Creator: "SAFARICOM", Subject: "m-pesa statement"},
			want: true,
		},
		{
			name: "signature embedded in longer values",
			meta: Metadata{Creator: "Safaricom PLC", Subject: "Monthly M-PESA Statement Export"},
			want: true,
		},
		{
			name: "wrong creator",
			meta: Metadata{Creator: "Some Bank", Subject: "M-PESA Statement"},
			want: false,
		},
		{
			name: "wrong subject",
			meta: Metadata{Creator: "Safaricom", Subject: "Airtime Invoice"},
			want: false,
		},
		{
			name: "empty metadata",
			meta: Metadata{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sig.Matches(tt.meta))
		})
	}
}

func TestIssuerSignature_EmptySignatureMatchesEverything(t *testing.T) {
	sig := IssuerSignature{}
	assert.True(t, sig.Matches(Metadata{Creator: "anything", Subject: "at all"}))
	assert.True(t, sig.Matches(Metadata{}))
}

func TestReader_OpenMissingFile(t *testing.T) {
	r := NewReader(IssuerSignature{Creator: "Safaricom"})

	_, err := r.Open(filepath.Join(t.TempDir(), "absent.pdf"), "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open statement file")
}

func TestErrorMessages(t *testing.T) {
	decErr := &DecryptionError{Path: "/uploads/stmt.pdf"}
	assert.Contains(t, decErr.Error(), "invalid password")
	assert.Contains(t, decErr.Error(), "/uploads/stmt.pdf")

	fmtErr := &FormatError{Creator: "Some Bank", Subject: "Invoice"}
	assert.Contains(t, fmtErr.Error(), "Some Bank")
	assert.Contains(t, fmtErr.Error(), "Invoice")
}
