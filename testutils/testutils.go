package testutils

import (
	"bytes"
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	std "github.com/jlrickert/testtools/pkg"
)

// FixtureOption is a function used to modify a Fixture during construction.
type FixtureOption func(f *Fixture)

// Fixture bundles common test setup used by package tests. It contains a
// testing.T, a context carrying a test logger, a test clock and a captured
// stream, and a temporary "jail" directory that acts as an isolated
// filesystem.
type Fixture struct {
	t *testing.T

	ctx context.Context

	logger *std.TestHandler
	clock  *std.TestClock
	stream *std.Stream

	// Jail is a temporary directory that acts as the root filesystem for
	// file-based test fixtures.
	Jail string

	outBuf *bytes.Buffer
	errBuf *bytes.Buffer
}

// NewFixture constructs a Fixture and applies given options. Cleanup is
// handled by t.TempDir so callers do not need to call a cleanup func.
func NewFixture(t *testing.T, opts ...FixtureOption) *Fixture {
	t.Helper()

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	stream := &std.Stream{
		In:  bytes.NewReader(nil),
		Out: outBuf,
		Err: errBuf,
	}

	lg, handler := std.NewTestLogger(t, std.ParseLevel("debug"))
	clock := std.NewTestClock(time.Date(2025, 10, 15, 12, 30, 0, 0, time.UTC))
	clock.Step = 10 * time.Millisecond

	ctx := t.Context()
	ctx = std.WithLogger(ctx, lg)
	ctx = std.WithClock(ctx, clock)
	ctx = std.WithStream(ctx, stream)

	f := &Fixture{
		t:      t,
		ctx:    ctx,
		logger: handler,
		clock:  clock,
		stream: stream,
		Jail:   t.TempDir(),
		outBuf: outBuf,
		errBuf: errBuf,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithClock sets the test clock to the provided time.
func WithClock(t0 time.Time) FixtureOption {
	return func(f *Fixture) {
		f.clock.Set(t0)
	}
}

// WithTTY marks both stdout and stderr of the fixture stream as terminals.
func WithTTY(v bool) FixtureOption {
	return func(f *Fixture) {
		f.stream.IsTTY = v
		f.stream.ErrIsTTY = v
	}
}

// WithFile seeds a file under the jail.
func WithFile(rel string, data []byte) FixtureOption {
	return func(f *Fixture) {
		f.t.Helper()
		f.MustWriteJailFile(rel, data, 0o644)
	}
}

// Context returns the fixture context.
func (f *Fixture) Context() context.Context {
	return f.ctx
}

// Logs returns the handler capturing log records written through the fixture
// context.
func (f *Fixture) Logs() *std.TestHandler {
	return f.logger
}

// Clock returns the fixture test clock.
func (f *Fixture) Clock() *std.TestClock {
	return f.clock
}

// Stream returns the captured stream installed on the fixture context.
func (f *Fixture) Stream() *std.Stream {
	return f.stream
}

// AbsPath returns an absolute path inside the jail. Relative paths are
// joined to the jail; absolute paths already inside the jail are returned
// cleaned; any other absolute path is re-rooted under the jail.
func (f *Fixture) AbsPath(rel string) string {
	jail := filepath.Clean(f.Jail)
	p := filepath.Clean(filepath.FromSlash(rel))
	if !filepath.IsAbs(p) {
		return filepath.Join(jail, p)
	}
	if r, err := filepath.Rel(jail, p); err == nil && !strings.HasPrefix(r, "..") {
		return p
	}
	return filepath.Join(jail, p)
}

// ReadJailFile reads a file located under the fixture Jail.
func (f *Fixture) ReadJailFile(rel string) ([]byte, error) {
	return os.ReadFile(f.AbsPath(rel))
}

// MustReadJailFile reads a file under the Jail and fails the test on error.
func (f *Fixture) MustReadJailFile(rel string) []byte {
	f.t.Helper()
	b, err := f.ReadJailFile(rel)
	if err != nil {
		f.t.Fatalf("MustReadJailFile %s failed: %v", rel, err)
	}
	return b
}

// WriteJailFile writes data to a path under the fixture Jail, creating parent
// directories as needed.
func (f *Fixture) WriteJailFile(rel string, data []byte, perm os.FileMode) error {
	if f.Jail == "" {
		return fmt.Errorf("no jail set")
	}
	p := f.AbsPath(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, perm)
}

// MustWriteJailFile writes data under the Jail and fails the test on error.
func (f *Fixture) MustWriteJailFile(rel string, data []byte, perm os.FileMode) {
	f.t.Helper()
	if err := f.WriteJailFile(rel, data, perm); err != nil {
		f.t.Fatalf("MustWriteJailFile %s failed: %v", rel, err)
	}
}

// JailFileExists reports whether rel exists under the jail.
func (f *Fixture) JailFileExists(rel string) bool {
	f.t.Helper()
	ok, err := std.Exists(f.AbsPath(rel))
	if err != nil {
		f.t.Fatalf("JailFileExists %s failed: %v", rel, err)
	}
	return ok
}

// ListJail returns the jail-relative paths of every regular file under the
// jail, in lexical order.
func (f *Fixture) ListJail() []string {
	f.t.Helper()
	var out []string
	err := filepath.WalkDir(f.Jail, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(f.Jail, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		f.t.Fatalf("ListJail walk error: %v", err)
	}
	return out
}

// ReadStdout returns everything written to the fixture stdout so far.
func (f *Fixture) ReadStdout() []byte {
	return f.outBuf.Bytes()
}

// ReadStderr returns everything written to the fixture stderr so far.
func (f *Fixture) ReadStderr() []byte {
	return f.errBuf.Bytes()
}

// Advance advances the fixture test clock by the given duration.
func (f *Fixture) Advance(d time.Duration) {
	f.clock.Advance(d)
}

// LogEntries returns captured log entries with the given message.
func (f *Fixture) LogEntries(msg string) []std.LoggedEntry {
	return std.FindEntries(f.logger, std.MsgIs(msg))
}

// RequireLog fails the test unless an entry with msg at level was logged.
func (f *Fixture) RequireLog(level slog.Level, msg string) std.LoggedEntry {
	f.t.Helper()
	return std.RequireEntry(f.t, f.logger, func(e std.LoggedEntry) bool {
		return e.Msg == msg && e.Level == level
	})
}
