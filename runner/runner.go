// Package runner executes the program under test and captures what it
// writes to its standard streams.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	std "github.com/jlrickert/testtools/pkg"
)

// Invocation is a command path and its ordered arguments.
type Invocation struct {
	Command string
	Args    []string
}

// String renders the invocation roughly as a shell would display it.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Args)+1)
	for _, p := range append([]string{inv.Command}, inv.Args...) {
		if p == "" || strings.ContainsAny(p, " \t\n\"'\\") {
			p = strconv.Quote(p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// Result holds the outcome of a child process including its exit code and
// captured stdout and stderr.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Option configures a Run.
type Option func(o *options)

type options struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// WithStdin connects r to the child's stdin. By default the child reads from
// the null device.
func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithStdout copies the child's stdout to w in addition to capturing it.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr copies the child's stderr to w in addition to capturing it.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// Run starts inv and blocks until it terminates or ctx is cancelled. The
// returned Result is non-nil whenever the process was attempted. A non-zero
// exit or a start failure is reported as a *ProcessError.
func Run(ctx context.Context, inv Invocation, opts ...Option) (*Result, error) {
	if inv.Command == "" {
		return nil, ErrNoCommand
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	lg := std.PackageLogger(ctx, "runner").With(
		slog.String("command", inv.Command),
		slog.Any("args", inv.Args),
	)

	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	cmd.Stdin = o.stdin
	cmd.Stdout = teeTo(&outBuf, o.stdout)
	cmd.Stderr = teeTo(&errBuf, o.stderr)

	lg.Debug("starting process")
	elapsed := std.Stopwatch(ctx)
	err := cmd.Run()

	result := &Result{
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
		Duration: elapsed(),
	}

	if err == nil {
		lg.Debug("process finished",
			slog.Int("exitCode", 0),
			slog.Duration("duration", result.Duration),
		)
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	lg.Debug("process failed",
		slog.Int("exitCode", result.ExitCode),
		slog.Duration("duration", result.Duration),
		slog.Any("error", err),
	)

	return result, &ProcessError{
		Invocation: inv,
		ExitCode:   result.ExitCode,
		Stderr:     result.Stderr,
		Err:        err,
	}
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
