package runner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProcessFailure is reported when the program under test could not be
	// started or exited with a non-zero status.
	ErrProcessFailure = errors.New("process failure")
	ErrNoCommand      = errors.New("no command given")
)

// ProcessError describes a failed child process. ExitCode is -1 when the
// process never started or was terminated by a signal.
type ProcessError struct {
	Invocation Invocation
	ExitCode   int
	Stderr     []byte
	Err        error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrProcessFailure, e.Invocation)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrProcessFailure) hold for every ProcessError.
func (e *ProcessError) Is(target error) bool {
	return target == ErrProcessFailure
}

func (e *ProcessError) Unwrap() error { return e.Err }
