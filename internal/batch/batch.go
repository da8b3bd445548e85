// Package batch parses many MATLAB files concurrently. Every file gets its
// own lexer, parser and diagnostics collector; results are merged once all
// workers are done.
package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/lexer"
	"github.com/CerenB/miss-hit/compiler/parser"
)

// Options configures a Driver
type Options struct {
	// Workers bounds the number of files parsed at once; zero means one
	// per available CPU
	Workers int
	// Octave selects the Octave dialect of the lexer
	Octave bool
	// Parser holds extra options passed to every parser
	Parser []parser.Option
	// Source builds the token source of a file; the reference lexer is
	// used when nil
	Source func(path, source string) parser.TokenSource
	// Progress is called from the workers after each file
	Progress func(*Result)
	Logger   *zap.Logger
}

// Result is the outcome of parsing one file
type Result struct {
	Path        string
	Source      string
	Unit        parser.CompilationUnit
	Diagnostics *errors.Collector
	// Err is the syntax error or read failure that stopped the file
	Err      error
	Duration time.Duration
}

// OK reports whether the file parsed without a fatal problem
func (r *Result) OK() bool {
	return r.Err == nil
}

// Unreported returns Err when the collector does not already hold it as a
// fatal diagnostic: read failures, internal errors and token sources that
// bypass the message handler.
func (r *Result) Unreported() error {
	if r.Err == nil || (r.Diagnostics != nil && r.Diagnostics.HasFatals()) {
		return nil
	}
	return r.Err
}

// AllDiagnostics returns the collected diagnostics followed by the
// unreported error, if any
func (r *Result) AllDiagnostics() []errors.CompilerError {
	var all []errors.CompilerError
	if r.Diagnostics != nil {
		all = r.Diagnostics.All()
	}
	err := r.Unreported()
	if err == nil {
		return all
	}
	if syntaxErr, ok := err.(*parser.SyntaxError); ok {
		return append(all, syntaxErr.ToCompilerError())
	}
	code := errors.ErrParserDiagnostic
	if r.Diagnostics == nil {
		code = errors.ErrFileUnreadable
	}
	return append(all, errors.NewCompilerError("driver", code, err.Error(),
		errors.SourceLocation{File: r.Path}, errors.Fatal))
}

// Report is the outcome of a whole run
type Report struct {
	RunID   uuid.UUID
	// Results are in the order the paths were given. Files skipped after
	// an internal error are nil.
	Results []*Result
}

// Failed returns the number of files that did not parse
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res != nil && !res.OK() {
			n++
		}
	}
	return n
}

// Counts returns the number of errors and warnings over all files
func (r *Report) Counts() (errorCount, warningCount int) {
	for _, res := range r.Results {
		if res == nil || res.Diagnostics == nil {
			continue
		}
		errorCount += res.Diagnostics.ErrorCount()
		warningCount += res.Diagnostics.WarningCount()
	}
	return errorCount, warningCount
}

// InternalError is returned by Run when the parser failed on its own
// invariants. It aborts the whole run.
type InternalError struct {
	Path string
	ICE  *errors.ICE
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.ICE)
}

func (e *InternalError) Unwrap() error {
	return e.ICE
}

// Driver runs batches of files
type Driver struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Driver
func New(opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{opts: opts, logger: logger}
}

// Run parses paths. Syntax errors and unreadable files are recorded per
// file and do not stop the run. An internal compiler error cancels the
// files not yet started and is returned as an *InternalError.
func (d *Driver) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{
		RunID:   uuid.New(),
		Results: make([]*Result, len(paths)),
	}
	logger := d.logger.With(zap.String("run_id", report.RunID.String()))
	logger.Info("batch started", zap.Int("files", len(paths)), zap.Int("workers", d.opts.Workers))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := d.parseFile(path, logger)
			report.Results[i] = res
			if d.opts.Progress != nil {
				d.opts.Progress(res)
			}
			if ice, ok := res.Err.(*errors.ICE); ok {
				logger.Error("internal compiler error", zap.String("file", path), zap.String("reason", ice.Reason))
				return &InternalError{Path: path, ICE: ice}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	errorCount, warningCount := report.Counts()
	logger.Info("batch finished",
		zap.Int("failed", report.Failed()),
		zap.Int("errors", errorCount),
		zap.Int("warnings", warningCount),
		zap.Duration("duration", time.Since(start)))
	return report, nil
}

func (d *Driver) parseFile(path string, logger *zap.Logger) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("cannot read file", zap.String("file", path), zap.Error(err))
		return &Result{Path: path, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	return d.Parse(path, string(data))
}

// Parse parses a single source text with the driver's options
func (d *Driver) Parse(path, source string) *Result {
	res := &Result{
		Path:        path,
		Source:      source,
		Diagnostics: errors.NewCollector(source),
	}

	var src parser.TokenSource
	switch {
	case d.opts.Source != nil:
		src = d.opts.Source(path, source)
	case d.opts.Octave:
		src = lexer.NewOctave(source, path)
	default:
		src = lexer.New(source, path)
	}

	opts := append([]parser.Option{
		parser.WithFilename(path),
		parser.WithMessageHandler(res.Diagnostics),
	}, d.opts.Parser...)

	start := time.Now()
	res.Unit, res.Err = parser.New(src, opts...).ParseFile()
	res.Duration = time.Since(start)

	d.logger.Debug("parsed file",
		zap.String("file", path),
		zap.Bool("ok", res.Err == nil),
		zap.Int("errors", res.Diagnostics.ErrorCount()),
		zap.Int("warnings", res.Diagnostics.WarningCount()),
		zap.Duration("duration", res.Duration))
	return res
}
