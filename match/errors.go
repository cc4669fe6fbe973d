package match

import (
	"errors"
	"fmt"
)

var (
	ErrNoPatternSpecified = errors.New("no regex specified")
	ErrInvalidPattern     = errors.New("invalid regex")
	ErrPatternNotFound    = errors.New("did not match")
)

// NotFoundError names the first pattern that found no match and carries the
// full captured output for diagnosis.
type NotFoundError struct {
	Pattern string
	Output  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPatternNotFound, e.Pattern, e.Output)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPatternNotFound
}

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrInvalidPattern, e.Pattern, e.Err)
}

func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

func (e *PatternError) Unwrap() error { return e.Err }
