// Package runner applies a configured extraction to a list of inputs.
package runner

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/cutr-cli/cutr/cutr/pkg/clilog"
	"github.com/cutr-cli/cutr/cutr/pkg/clipper"
	"github.com/cutr-cli/cutr/cutr/pkg/cutconf"
	"github.com/cutr-cli/cutr/cutr/pkg/records"
	"github.com/cutr-cli/cutr/cutr/pkg/xinput"
)

// batchSize is the number of lines or records extracted at once.
const batchSize = 4096

// Runner reads inputs, extracts the selection from every line or record and
// writes the result in input order.
type Runner struct {
	cfg    cutconf.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdin sets the reader used for the "-" input.
func WithStdin(r io.Reader) Option {
	return func(rn *Runner) { rn.stdin = r }
}

// WithStdout sets where extracted output goes.
func WithStdout(w io.Writer) Option {
	return func(rn *Runner) { rn.stdout = w }
}

// WithStderr sets where per file errors are reported.
func WithStderr(w io.Writer) Option {
	return func(rn *Runner) { rn.stderr = w }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(rn *Runner) { rn.log = log }
}

// New creates a Runner for cfg. It uses the process standard streams unless
// options say otherwise.
func New(cfg cutconf.Config, options ...Option) *Runner {
	rn := &Runner{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    clilog.Discard(),
	}
	for _, apply := range options {
		apply(rn)
	}
	if rn.cfg.Jobs < 1 {
		rn.cfg.Jobs = 1
	}
	return rn
}

// Run processes files in order. A file that cannot be opened is reported on
// stderr and skipped; any other failure stops the run.
func (rn *Runner) Run(ctx context.Context, files []string) error {
	out := bufio.NewWriter(rn.stdout)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		in, err := xinput.Open(name, rn.stdin)
		if err != nil {
			rn.log.Debug("cannot open input", "file", name, "error", err)
			if ferr := out.Flush(); ferr != nil {
				return errors.Wrap(ferr, "cannot write output")
			}
			clilog.PrintFileError(rn.stderr, name, err)
			continue
		}

		rn.log.Debug("processing input", "file", name, "mode", rn.cfg.Extraction.Mode(), "jobs", rn.cfg.Jobs)
		err = rn.process(ctx, in, out)
		in.Close()
		if err != nil {
			if ferr := out.Flush(); ferr != nil {
				rn.log.Warn("cannot write output", "file", name, "error", ferr)
			}
			return errors.Wrap(err, name)
		}
		rn.log.Debug("finished input", "file", name)
	}

	return errors.Wrap(out.Flush(), "cannot write output")
}

func (rn *Runner) process(ctx context.Context, in io.Reader, out *bufio.Writer) error {
	if rn.cfg.Extraction.Mode() == clipper.ModeFields {
		return rn.processRecords(ctx, in, out)
	}
	return rn.processLines(ctx, in, out)
}

func (rn *Runner) processLines(ctx context.Context, in io.Reader, out *bufio.Writer) error {
	lines := newLineReader(in)
	extraction := rn.cfg.Extraction

	for {
		batch, readErr := readBatch(lines.next, lines.buffered)
		if len(batch) == 0 && readErr == nil {
			return nil
		}

		extracted, err := mapOrdered(ctx, rn.cfg.Jobs, batch, extraction.Line)
		if err != nil {
			return err
		}
		for _, line := range extracted {
			out.WriteString(line)
			if err := out.WriteByte('\n'); err != nil {
				return errors.Wrap(err, "cannot write output")
			}
		}
		if err := out.Flush(); err != nil {
			return errors.Wrap(err, "cannot write output")
		}

		if readErr != nil {
			return errors.Wrap(readErr, "cannot read line")
		}
	}
}

func (rn *Runner) processRecords(ctx context.Context, in io.Reader, out *bufio.Writer) error {
	reader := records.NewReader(in, rn.cfg.Delimiter)
	writer := records.NewWriter(out, rn.cfg.OutputDelimiter)
	extraction := rn.cfg.Extraction

	for {
		batch, readErr := readBatch(reader.Read, reader.Buffered)
		if len(batch) == 0 && readErr == nil {
			return writer.Flush()
		}

		extracted, err := mapOrdered(ctx, rn.cfg.Jobs, batch, extraction.Record)
		if err != nil {
			return err
		}
		for _, fields := range extracted {
			if err := writer.Write(fields); err != nil {
				return err
			}
		}
		if err := writer.Flush(); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return errors.Wrap(err, "cannot write output")
		}

		if readErr != nil {
			return readErr
		}
	}
}

// readBatch collects up to batchSize items from next. The batch also ends
// as soon as buffered reports that the next item would have to wait for more
// input, so that interactive and piped input is answered line by line.
// io.EOF ends the batch without an error. On any other error the items read
// so far are returned together with it.
func readBatch[T any](next func() (T, error), buffered func() bool) ([]T, error) {
	var batch []T
	for len(batch) < batchSize {
		item, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return batch, err
		}
		batch = append(batch, item)
		if !buffered() {
			break
		}
	}
	return batch, nil
}
