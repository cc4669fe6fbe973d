package match_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/jlrickert/testtools/match"
	"github.com/jlrickert/testtools/runner"
	tu "github.com/jlrickert/testtools/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelperProcess(t *testing.T) { tu.RunHelperProcess() }

func TestMatch_AllPatternsMatch(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	name, args := tu.HelperCommand(t, "echo", "hello world")

	err := match.Match(f.Context(), match.Options{
		Patterns: []string{"hello", "w.rld"},
		Command:  name,
		Args:     args,
	})
	require.NoError(t, err)
}

func TestMatch_PatternNotFound(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	name, args := tu.HelperCommand(t, "echo", "hello world")

	err := match.Match(f.Context(), match.Options{
		Patterns: []string{"hello", "xyz"},
		Command:  name,
		Args:     args,
	})
	require.ErrorIs(t, err, match.ErrPatternNotFound)

	var nf *match.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "xyz", nf.Pattern)
	assert.Equal(t, "hello world", nf.Output)
	assert.Equal(t, "did not match: xyz: hello world", err.Error())
}

func TestMatch_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	name, args := tu.HelperCommand(t, "echo", "alpha")

	err := match.Match(f.Context(), match.Options{
		Patterns: []string{"beta", "gamma"},
		Command:  name,
		Args:     args,
	})

	var nf *match.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "beta", nf.Pattern)
}

func TestMatch_NoPatterns(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)

	// The command does not exist: reaching the runner would surface a
	// process failure instead.
	err := match.Match(f.Context(), match.Options{
		Command: "definitely-not-a-command-12345",
	})
	require.ErrorIs(t, err, match.ErrNoPatternSpecified)
	assert.NotErrorIs(t, err, runner.ErrProcessFailure)
	assert.Empty(t, f.LogEntries("starting process"))
}

func TestMatch_InvalidPattern(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)

	err := match.Match(f.Context(), match.Options{
		Patterns: []string{"ok", "(unclosed"},
		Command:  "definitely-not-a-command-12345",
	})
	require.ErrorIs(t, err, match.ErrInvalidPattern)

	var perr *match.PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "(unclosed", perr.Pattern)
	assert.Empty(t, f.LogEntries("starting process"))
}

func TestMatch_ProcessFailure(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	name, args := tu.HelperCommand(t, "echo", "hello", "exit", "1")

	err := match.Match(f.Context(), match.Options{
		Patterns: []string{"hello"},
		Command:  name,
		Args:     args,
	})
	require.ErrorIs(t, err, runner.ErrProcessFailure)
	assert.NotErrorIs(t, err, match.ErrPatternNotFound)
}

func TestMatch_StderrIsNotSearched(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	name, args := tu.HelperCommand(t, "echo", "on stdout", "stderr", "on stderr")

	err := match.Match(f.Context(), match.Options{
		Patterns: []string{"on stderr"},
		Command:  name,
		Args:     args,
	})
	require.ErrorIs(t, err, match.ErrPatternNotFound)
}

func TestCheck_Unanchored(t *testing.T) {
	t.Parallel()

	output := "line one\nline two: 42 items\nline three\n"
	cases := []struct {
		name    string
		pattern string
		ok      bool
	}{
		{name: "middle of text", pattern: `\d+ items`, ok: true},
		{name: "multiline anchor", pattern: `(?m)^line two`, ok: true},
		{name: "whole string anchor", pattern: `^line two`, ok: false},
		{name: "absent", pattern: `line four`, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := match.Check(context.Background(), []*regexp.Regexp{regexp.MustCompile(tc.pattern)}, output)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, match.ErrPatternNotFound)
			}
		})
	}
}
