// Package fixture runs a program that writes its result to a file and
// compares that file byte for byte against a reference fixture.
package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	std "github.com/jlrickert/testtools/pkg"
	"github.com/jlrickert/testtools/runner"
)

// maxDiffSize bounds the inputs rendered into a MismatchError diff.
const maxDiffSize = 64 << 10

// Options describes one comparison.
type Options struct {
	// Fixture is the path of the reference file.
	Fixture string

	Command string
	Args    []string

	// TempDir is where the output file is created. Empty means os.TempDir.
	TempDir string

	// Stdout and Stderr, when set, receive the child's streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Compare runs Command with Args followed by the path of a fresh temporary
// file and checks that the program wrote exactly the fixture bytes to it.
//
// A non-zero exit is reported as runner.ErrProcessFailure, an empty output
// file as ErrEmptyOutput (even when the fixture is empty too), and differing
// bytes as a *MismatchError. The temporary file is removed before Compare
// returns on every path.
func Compare(ctx context.Context, opts Options) error {
	lg := std.PackageLogger(ctx, "fixture")

	want, err := os.ReadFile(opts.Fixture)
	if err != nil {
		return fmt.Errorf("read fixture %q: %w", opts.Fixture, err)
	}

	tmp, err := os.CreateTemp(opts.TempDir, "comparefixture-*")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	outPath := tmp.Name()
	defer func() {
		if err := os.Remove(outPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			lg.Warn("unable to remove output file",
				slog.String("path", outPath),
				slog.Any("error", err),
			)
		}
	}()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	inv := runner.Invocation{
		Command: opts.Command,
		Args:    append(slices.Clone(opts.Args), outPath),
	}

	var runOpts []runner.Option
	if opts.Stdout != nil {
		runOpts = append(runOpts, runner.WithStdout(opts.Stdout))
	}
	if opts.Stderr != nil {
		runOpts = append(runOpts, runner.WithStderr(opts.Stderr))
	}
	if _, err := runner.Run(ctx, inv, runOpts...); err != nil {
		return err
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		return fmt.Errorf("read output of %s: %w", inv, err)
	}

	lg.Debug("comparing output",
		slog.String("fixture", opts.Fixture),
		slog.Int("fixtureSize", len(want)),
		slog.Int("outputSize", len(got)),
	)

	if len(got) == 0 {
		return fmt.Errorf("%s: %w", inv, ErrEmptyOutput)
	}
	if !bytes.Equal(got, want) {
		return newMismatchError(opts.Fixture, want, got)
	}
	return nil
}

func newMismatchError(path string, want, got []byte) *MismatchError {
	e := &MismatchError{
		Fixture:     path,
		FixtureSize: len(want),
		OutputSize:  len(got),
		Offset:      firstDifference(want, got),
	}
	if isText(want) && isText(got) {
		e.Diff = cmp.Diff(strings.SplitAfter(string(want), "\n"), strings.SplitAfter(string(got), "\n"))
	}
	return e
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func isText(b []byte) bool {
	return len(b) <= maxDiffSize && utf8.Valid(b) && bytes.IndexByte(b, 0) < 0
}
