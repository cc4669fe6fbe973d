// Package match runs a program and asserts that a set of regular expressions
// each match somewhere in its standard output.
package match

import (
	"context"
	"log/slog"
	"regexp"

	std "github.com/jlrickert/testtools/pkg"
	"github.com/jlrickert/testtools/runner"
)

// Options describes one matcher run.
type Options struct {
	// Patterns are RE2 expressions evaluated in order, unanchored.
	Patterns []string

	Command string
	Args    []string
}

// Match checks every pattern against the program's stdout.
//
// Supplying no patterns fails with ErrNoPatternSpecified and a malformed
// pattern with ErrInvalidPattern; neither starts the program. A non-zero exit
// is reported as runner.ErrProcessFailure. The first pattern without a match
// stops evaluation and is returned as a *NotFoundError.
func Match(ctx context.Context, opts Options) error {
	if len(opts.Patterns) == 0 {
		return ErrNoPatternSpecified
	}

	res, err := Compile(opts.Patterns)
	if err != nil {
		return err
	}

	inv := runner.Invocation{Command: opts.Command, Args: opts.Args}
	result, err := runner.Run(ctx, inv)
	if err != nil {
		return err
	}

	return Check(ctx, res, string(result.Stdout))
}

// Compile compiles patterns in order, stopping at the first invalid one.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		res = append(res, re)
	}
	return res, nil
}

// Check reports the first expression in res that does not match output.
func Check(ctx context.Context, res []*regexp.Regexp, output string) error {
	lg := std.PackageLogger(ctx, "match")
	for _, re := range res {
		if !re.MatchString(output) {
			return &NotFoundError{Pattern: re.String(), Output: output}
		}
		lg.Debug("pattern matched", slog.String("pattern", re.String()))
	}
	return nil
}
