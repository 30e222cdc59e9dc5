// Command classify runs the triage engine over a JSONL stream of emails
// without starting the HTTP server. Each input line is one EmailInput
// document; each output line carries the matching result or error.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/mail-triage/internal/bootstrap"
	"github.com/jonesrussell/mail-triage/internal/classifier"
	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/domain"
	"github.com/jonesrussell/mail-triage/internal/logger"
	"github.com/jonesrussell/mail-triage/internal/logging"
	"github.com/jonesrussell/mail-triage/internal/processor"
)

const (
	// defaultChunkSize is how many emails are handed to the worker pool at
	// once when the config does not set a batch size.
	defaultChunkSize = 50
	// maxLineBytes caps a single input line. Bodies above the sanitation
	// limit still classify; lines beyond this are malformed input.
	maxLineBytes = 1 << 20
)

// lineResult is one output line. Exactly one of Result and Error is set.
type lineResult struct {
	Line   int                          `json:"line"`
	Result *domain.ClassificationResult `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
}

// item is one consumed input line awaiting output.
type item struct {
	line     int
	email    domain.EmailInput
	parseErr error
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("classify: %v", err)
	}
}

func run() error {
	inPath := flag.String("in", "-", "input JSONL file, - for stdin")
	outPath := flag.String("out", "-", "output JSONL file, - for stdout")
	concurrency := flag.Int("concurrency", 0, "worker count, 0 uses config")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if *concurrency > 0 {
		cfg.Service.Concurrency = *concurrency
	}

	// Log to stderr so stdout stays valid JSONL.
	zl, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	store, err := config.NewStore(cfg.Engine.SnapshotPath, zl)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	providers := bootstrap.SetupProviders(cfg, zl)
	engine := classifier.NewEngine(store.Active(), providers, zl, nil)
	batch := processor.NewBatchProcessor(engine, cfg.Service.Concurrency, logging.NewAdapter(zl))

	in, closeIn, err := openInput(*inPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(*outPath)
	if err != nil {
		return err
	}

	total, failed, err := classifyStream(ctx, batch, in, out, cfg.Service.MaxBatchSize)
	if err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	zl.Info("Offline classification complete",
		logger.Int("total", total),
		logger.Int("failed", failed),
	)
	return nil
}

// classifyStream consumes JSONL emails from in and writes one result line
// per input line to out, preserving input order. Lines that fail to parse
// produce an error line without reaching the engine.
func classifyStream(
	ctx context.Context,
	batch *processor.BatchProcessor,
	in io.Reader,
	out io.Writer,
	chunkSize int,
) (total, failed int, err error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)

	flush := func(items []item) error {
		n, ferr := classifyChunk(ctx, batch, encoder, items)
		failed += n
		return ferr
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	pending := make([]item, 0, chunkSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		it := item{line: lineNo}
		if uerr := json.Unmarshal(raw, &it.email); uerr != nil {
			it.parseErr = fmt.Errorf("parse line %d: %w", lineNo, uerr)
		}
		pending = append(pending, it)
		total++

		if len(pending) >= chunkSize {
			if ferr := flush(pending); ferr != nil {
				return total, failed, ferr
			}
			pending = pending[:0]

			if cerr := ctx.Err(); cerr != nil {
				return total, failed, cerr
			}
		}
	}
	if serr := scanner.Err(); serr != nil {
		return total, failed, fmt.Errorf("read input: %w", serr)
	}

	if len(pending) > 0 {
		if ferr := flush(pending); ferr != nil {
			return total, failed, ferr
		}
	}

	if werr := writer.Flush(); werr != nil {
		return total, failed, fmt.Errorf("write output: %w", werr)
	}
	return total, failed, nil
}

// classifyChunk runs one chunk through the worker pool and emits every item
// in input order. Returns the number of failed items in the chunk.
func classifyChunk(
	ctx context.Context,
	batch *processor.BatchProcessor,
	encoder *json.Encoder,
	items []item,
) (int, error) {
	emails := make([]domain.EmailInput, 0, len(items))
	slots := make([]int, 0, len(items))
	for i, it := range items {
		if it.parseErr == nil {
			emails = append(emails, it.email)
			slots = append(slots, i)
		}
	}

	results := make([]processor.ProcessResult, len(items))
	for i, res := range batch.Process(ctx, emails) {
		results[slots[i]] = res
	}

	failed := 0
	for i, it := range items {
		line := lineResult{Line: it.line}
		switch {
		case it.parseErr != nil:
			line.Error = it.parseErr.Error()
			failed++
		case results[i].Err != nil:
			line.Error = results[i].Err.Error()
			failed++
		default:
			line.Result = results[i].Result
		}
		if err := encoder.Encode(line); err != nil {
			return failed, fmt.Errorf("write output: %w", err)
		}
	}
	return failed, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
