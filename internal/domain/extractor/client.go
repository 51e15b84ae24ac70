// Package extractor is the client for the table-extraction collaborator: a
// camelot sidecar that detects table geometry on a statement page and returns
// the cell grid. The core never does geometry itself; it only consumes rows.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement"
)

// Config controls the sidecar client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client calls the table-extraction sidecar over HTTP. Transient failures are
// retried with exponential backoff; client-side errors are not.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     *slog.Logger
}

// NewClient creates a sidecar client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// extractRequest is the sidecar request body. The sidecar shares the upload
// volume, so the statement is addressed by path rather than re-uploaded.
type extractRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
	Page     int    `json:"page"`
}

// extractResponse carries every table the sidecar found on the page, in
// reading order, as row-major cell grids.
type extractResponse struct {
	Tables [][][]string `json:"tables"`
}

// ExtractPage returns the statement data table of one page as raw rows.
//
// Page 1 of a statement opens with a summary table before the transaction
// table, so the data table sits at index 1 there and at index 0 on every
// other page.
func (c *Client) ExtractPage(ctx context.Context, path, password string, page int) ([]statement.RawRow, error) {
	tableIndex := 0
	if page == 1 {
		tableIndex = 1
	}

	body, err := json.Marshal(extractRequest{Path: path, Password: password, Page: page})
	if err != nil {
		return nil, fmt.Errorf("encode extract request: %w", err)
	}

	var resp extractResponse
	operation := func() error {
		return c.post(ctx, body, &resp)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		c.logger.Warn("table extraction attempt failed",
			slog.Int("page", page),
			slog.Duration("retry_in", next),
			slog.Any("error", err),
		)
	}); err != nil {
		return nil, fmt.Errorf("extract page %d: %w", page, err)
	}

	if tableIndex >= len(resp.Tables) {
		return nil, fmt.Errorf("extract page %d: sidecar returned %d tables, need index %d",
			page, len(resp.Tables), tableIndex)
	}

	grid := resp.Tables[tableIndex]
	rows := make([]statement.RawRow, 0, len(grid))
	for _, cells := range grid {
		rows = append(rows, statement.RawRow(cells))
	}
	return rows, nil
}

func (c *Client) post(ctx context.Context, body []byte, out *extractResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("sidecar returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("sidecar rejected request: %s: %s", resp.Status, payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode sidecar response: %w", err))
	}
	return nil
}
