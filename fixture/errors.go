package fixture

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOutput     = errors.New("program produced no output")
	ErrFixtureMismatch = errors.New("output does not match fixture")
)

// MismatchError reports where the program output first diverged from the
// fixture. Diff is empty when either side is binary or too large to render.
type MismatchError struct {
	Fixture     string
	FixtureSize int
	OutputSize  int
	// Offset is the index of the first differing byte. When one side is a
	// prefix of the other it equals the shorter length.
	Offset int
	Diff   string
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("%s %s: first difference at byte %d (fixture %d bytes, output %d bytes)",
		ErrFixtureMismatch, e.Fixture, e.Offset, e.FixtureSize, e.OutputSize)
	if e.Diff != "" {
		msg += "\ndiff (-fixture +output):\n" + e.Diff
	}
	return msg
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrFixtureMismatch
}
