package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/insightdelivered/trial-balance-converter/internal/api"
	"github.com/insightdelivered/trial-balance-converter/internal/config"
	"github.com/insightdelivered/trial-balance-converter/internal/extractor"
	"github.com/insightdelivered/trial-balance-converter/internal/parser"
	"github.com/insightdelivered/trial-balance-converter/internal/store"
	"github.com/insightdelivered/trial-balance-converter/internal/writer"
)

func main() {
	// CLI flags
	formatFlag := flag.String("format", "", "Output format: csv, xlsx, text (default from config, csv)")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format's extension; - for stdout)")
	headerFlag := flag.Bool("header", true, "Include date range / customer / page metadata rows")
	configFlag := flag.String("config", "", "YAML config file (markers, server, store)")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Trial Balance (Mizan) PDF Converter
by Insight Delivered (QEA AutoLens)

Converts Turkish trial balance ("mizan") PDFs into structured
CSV, XLSX or text files.

Usage:
  trial-balance-converter [flags] <input.pdf> [input2.pdf ...]
  trial-balance-converter --serve [--config=mizan.yaml]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert to CSV next to the PDF
  trial-balance-converter mizan.pdf

  # Excel output with a custom path
  trial-balance-converter --format=xlsx --output=mizan-2023.xlsx mizan.pdf

  # Print the entries
  trial-balance-converter --format=text --output=- mizan.pdf

  # Start the API on MIZAN_ADDR (default :8080)
  trial-balance-converter --serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("trial-balance-converter v%s\n", api.Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag, ".env")
	if err != nil {
		fatalf("Config error: %v\n", err)
	}

	if *serveFlag {
		if err := serve(cfg); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	format := *formatFlag
	if format == "" {
		format = cfg.Output.Format
	}

	inputFiles := flag.Args()
	if len(inputFiles) > 1 && *outputFlag != "" && *outputFlag != "-" {
		fatalf("--output can only be used with a single input file\n")
	}

	p := parser.New(cfg.Markers)
	for _, inputPath := range inputFiles {
		if err := processFile(p, inputPath, format, *outputFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(p *parser.TrialBalanceParser, inputPath, format, outputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	w, outExt, err := writer.New(format, includeHeader)
	if err != nil {
		return err
	}

	// Progress goes to stderr when the result itself is written to stdout.
	progress := os.Stdout
	if outputPath == "-" {
		progress = os.Stderr
	}

	fmt.Fprintf(progress, "Processing: %s\n", inputPath)

	text, err := extractor.ExtractTextCombined(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	if !p.Detect(text) {
		fmt.Fprintln(progress, "  Warning: No ledger table header (HESAP KODU / AÇIKLAMA / BORÇ) found.")
		fmt.Fprintln(progress, "  The PDF may not be a trial balance, or uses different column labels (see --config).")
	}

	data := p.Parse(text)

	fmt.Fprintf(progress, "  Found %d ledger entr(y/ies)\n", len(data.LedgerEntries))

	if outputPath == "-" {
		if err := w.Write(os.Stdout, data); err != nil {
			return fmt.Errorf("%s write failed: %w", format, err)
		}
	} else {
		outPath := outputPath
		if outPath == "" {
			outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + outExt
		}
		if err := w.WriteToFile(outPath, data); err != nil {
			return fmt.Errorf("%s write failed: %w", format, err)
		}
		fmt.Fprintf(progress, "  Output: %s\n", outPath)
	}

	if data.CustomerName != "" {
		fmt.Fprintf(progress, "  Customer: %s\n", data.CustomerName)
	}
	if data.DateRange != "" {
		fmt.Fprintf(progress, "  Period: %s\n", data.DateRange)
	}
	if count := data.PageCount(); count != "" {
		fmt.Fprintf(progress, "  Pages: %s\n", count)
	}

	fmt.Fprintln(progress, "  Done.")
	return nil
}

func serve(cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &api.Handler{
		Parser:    parser.New(cfg.Markers),
		StaticDir: cfg.Server.StaticDir,
		Logger:    logger,
	}

	if cfg.Store.Path != "" {
		s, err := store.Open(ctx, cfg.Store.Path, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		h.Store = s
	}

	app := api.NewApp(h, cfg.Server.BodyLimitMB)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr, "version", api.Version)
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
