package extractor

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}, slog.New(slog.DiscardHandler))
}

func respond(t *testing.T, w http.ResponseWriter, tables [][][]string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"tables": tables}))
}

func TestClient_ExtractPage(t *testing.T) {
	summary := [][]string{{"Customer Name", "JOHN SMITH"}}
	data := [][]string{
		{"Receipt No.", "Completion Time"},
		{"R1", "t1"},
	}

	t.Run("page one skips the summary table", func(t *testing.T) {
		var gotReq extractRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/extract", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			respond(t, w, [][][]string{summary, data})
		})

		rows, err := client.ExtractPage(context.Background(), "/uploads/stmt.pdf", "secret", 1)
		require.NoError(t, err)

		assert.Equal(t, extractRequest{Path: "/uploads/stmt.pdf", Password: "secret", Page: 1}, gotReq)
		require.Len(t, rows, 2)
		assert.Equal(t, statement.RawRow{"R1", "t1"}, rows[1])
	})

	t.Run("later pages use the first table", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, [][][]string{data})
		})

		rows, err := client.ExtractPage(context.Background(), "/uploads/stmt.pdf", "secret", 2)
		require.NoError(t, err)
		assert.Equal(t, statement.RawRow{"Receipt No.", "Completion Time"}, rows[0])
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "worker crashed", http.StatusInternalServerError)
				return
			}
			respond(t, w, [][][]string{data})
		})

		rows, err := client.ExtractPage(context.Background(), "/uploads/stmt.pdf", "secret", 3)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not retry rejected requests", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "no such file", http.StatusBadRequest)
		})

		_, err := client.ExtractPage(context.Background(), "/uploads/missing.pdf", "secret", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such file")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("fails when the expected table is missing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, [][][]string{summary})
		})

		_, err := client.ExtractPage(context.Background(), "/uploads/stmt.pdf", "secret", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "need index 1")
	})

	t.Run("does not retry malformed responses", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte("<html>gateway</html>"))
		})

		_, err := client.ExtractPage(context.Background(), "/uploads/stmt.pdf", "secret", 1)
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}
