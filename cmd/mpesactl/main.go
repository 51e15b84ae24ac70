// mpesactl converts an M-Pesa statement PDF into transactions from the
// command line, using the same pipeline as the API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/classifier"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/export"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/extractor"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/pdfdoc"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement"
	statementservice "github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement/service"
)

var cli struct {
	Convert convertCmd `cmd:"" help:"Convert a statement PDF into classified transactions."`
}

type convertCmd struct {
	File     string        `arg:"" help:"Path to the statement PDF."`
	Password string        `required:"" help:"Statement password."`
	Format   string        `default:"json" enum:"json,csv,xlsx" help:"Output format."`
	Out      string        `help:"Output file (default stdout)."`
	Sidecar  string        `default:"http://localhost:9380" help:"Table-extraction sidecar URL."`
	Rules    string        `help:"Optional classifier rules YAML."`
	Timeout  time.Duration `default:"5m" help:"Overall extraction timeout."`
	Creator  string        `default:"Safaricom" help:"Expected statement creator signature."`
	Subject  string        `default:"M-PESA Statement" help:"Expected statement subject signature."`
}

func (c *convertCmd) Run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	rules := classifier.DefaultRules()
	if c.Rules != "" {
		var err error
		rules, err = classifier.LoadRules(c.Rules)
		if err != nil {
			return err
		}
	}

	reader := pdfdoc.NewReader(pdfdoc.IssuerSignature{Creator: c.Creator, Subject: c.Subject})
	docs := statementservice.DocumentReaderFunc(func(path, password string) (statementservice.Document, error) {
		doc, err := reader.Open(path, password)
		if err != nil {
			return nil, err
		}
		return doc, nil
	})

	tables := extractor.NewClient(extractor.Config{
		BaseURL:    c.Sidecar,
		Timeout:    time.Minute,
		MaxRetries: 3,
	}, logger)

	svc := statementservice.NewService(docs, tables, classifier.NewEngine(rules), logger)

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	progress := statement.ReporterFunc(func(done, total int) {
		fmt.Fprintf(os.Stderr, "page %d of %d\n", done, total)
	})

	transactions, err := svc.Extract(ctx, c.File, c.Password, progress)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch c.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(transactions)
	case "csv":
		return export.WriteCSV(out, transactions)
	case "xlsx":
		return export.WriteXLSX(out, transactions)
	}
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mpesactl"),
		kong.Description("M-Pesa statement extraction tooling."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
