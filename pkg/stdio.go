package std

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// Stream models the standard IO streams and common stream properties.
type Stream struct {
	// In is the input stream, typically os.Stdin.
	In io.Reader
	// Out is the output stream, typically os.Stdout.
	Out io.Writer
	// Err is the error stream, typically os.Stderr.
	Err io.Writer

	// IsPiped indicates whether stdin appears to be piped or redirected.
	IsPiped bool
	// IsTTY indicates whether stdout refers to a terminal.
	IsTTY bool
	// ErrIsTTY indicates whether stderr refers to a terminal. Progress bars
	// and colored error tags are only drawn when it is set.
	ErrIsTTY bool
}

// streamCtxKey is a private context key type for storing Stream values.
type streamCtxKey int

// ctxStreamKey is the context key used to store and retrieve Stream values.
var ctxStreamKey streamCtxKey

// WithStream returns a copy of ctx that carries the provided Stream.
// Use this to inject custom I/O streams for testing.
func WithStream(ctx context.Context, s *Stream) context.Context {
	return context.WithValue(ctx, ctxStreamKey, s)
}

// DefaultStream returns a Stream configured with the real process
// standard input, output, and error streams.
func DefaultStream() *Stream {
	return &Stream{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		IsPiped:  StdinHasData(os.Stdin),
		IsTTY:    IsInteractiveTerminal(os.Stdout),
		ErrIsTTY: IsInteractiveTerminal(os.Stderr),
	}
}

// StreamFromContext returns the Stream stored in ctx. If ctx does not contain
// a Stream, DefaultStream() is returned.
func StreamFromContext(ctx context.Context) *Stream {
	if v := ctx.Value(ctxStreamKey); v != nil {
		if s, ok := v.(*Stream); ok && s != nil {
			return s
		}
	}

	return DefaultStream()
}

// IsInteractiveTerminal reports whether the provided file is connected to an
// interactive terminal.
//
// This delegates to golang.org/x/term.IsTerminal and returns false for pipes,
// redirected files, and other non-terminal descriptors.
func IsInteractiveTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// StdinHasData reports whether the provided file appears to be receiving
// piped or redirected input (for example: `echo hi | myprog`).
//
// The check only inspects the file mode returned by Stat(); it returns true
// when the file is not a character device. If Stat fails it returns false.
func StdinHasData(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}
