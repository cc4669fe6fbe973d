package std

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// Test handler (simple, thread-safe)
///////////////////////////////////////////////////////////////////////////////

// LoggedEntry represents a captured structured log entry for assertions in
// tests. It contains the timestamp, level, message and any attributes.
type LoggedEntry struct {
	Time  time.Time
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// testingT is a tiny subset of *testing.T used for optional logging from the
// test handler. Only Logf is required.
type testingT interface {
	Logf(format string, args ...any)
}

// TestHandler captures structured entries so tests can assert on logs. It is
// safe for concurrent use. Handlers derived through WithAttrs share the
// captured entries with their parent.
type TestHandler struct {
	state *testHandlerState
	attrs []slog.Attr
	level slog.Level
	T     testingT
}

type testHandlerState struct {
	mu      sync.Mutex
	entries []LoggedEntry
}

// NewTestHandler creates an empty TestHandler. Optionally pass a testing.T to
// have the handler echo captured entries to the test log (via Logf).
func NewTestHandler(t testingT, level slog.Level) *TestHandler {
	return &TestHandler{state: &testHandlerState{}, T: t, level: level}
}

// Enabled reports whether level is at or above the handler level.
func (h *TestHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle captures the provided record as a LoggedEntry. If a testingT was
// provided, a human-readable line is also logged to the test output.
func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	e := LoggedEntry{
		Time:  r.Time,
		Level: r.Level,
		Msg:   r.Message,
		Attrs: make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.state.mu.Lock()
	h.state.entries = append(h.state.entries, e)
	h.state.mu.Unlock()

	if h.T != nil {
		h.T.Logf("LOG %s %v %v", e.Msg, e.Level, e.Attrs)
	}
	return nil
}

// WithAttrs returns a handler that records attrs on every entry.
func (h *TestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

// WithGroup returns the handler unchanged. Grouping is not modeled by this
// simple test handler.
func (h *TestHandler) WithGroup(_ string) slog.Handler { return h }

// Entries returns a copy of the captured entries.
func (h *TestHandler) Entries() []LoggedEntry {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]LoggedEntry(nil), h.state.entries...)
}

// NewTestLogger returns a *slog.Logger that writes to a TestHandler and the
// handler itself for assertions. The returned logger has a default attribute
// ("test"="true") to make it easier to identify test logs.
func NewTestLogger(t testingT, level slog.Level) (*slog.Logger, *TestHandler) {
	th := NewTestHandler(t, level)
	logger := slog.New(th).With(slog.String("test", "true"))
	return logger, th
}

var _ slog.Handler = (*TestHandler)(nil)

///////////////////////////////////////////////////////////////////////////////
// Small helpers for tests
///////////////////////////////////////////////////////////////////////////////

// FindEntries returns the entries from the TestHandler that satisfy the
// provided predicate.
func FindEntries(th *TestHandler, pred func(LoggedEntry) bool) []LoggedEntry {
	out := make([]LoggedEntry, 0)
	for _, e := range th.Entries() {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// RequireEntry fails the test if no captured entry satisfies pred. The
// matching entry is returned. On failure the captured entries are included in
// the message to aid debugging.
func RequireEntry(t *testing.T, th *TestHandler, pred func(LoggedEntry) bool) LoggedEntry {
	t.Helper()
	entries := th.Entries()
	for _, e := range entries {
		if pred(e) {
			return e
		}
	}
	t.Fatalf("required log entry not found; captured %d entries: %#v", len(entries), entries)
	return LoggedEntry{}
}

// MsgIs returns a predicate matching entries with the given message.
func MsgIs(msg string) func(LoggedEntry) bool {
	return func(e LoggedEntry) bool { return e.Msg == msg }
}
