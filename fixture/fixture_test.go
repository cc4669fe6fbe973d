package fixture_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/jlrickert/testtools/fixture"
	"github.com/jlrickert/testtools/runner"
	tu "github.com/jlrickert/testtools/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelperProcess(t *testing.T) { tu.RunHelperProcess() }

// compare runs the helper script against a fixture holding want. Output files
// are created in a dedicated directory so the test can check nothing is left
// behind.
func compare(t *testing.T, want string, script ...string) (*tu.Fixture, error) {
	t.Helper()

	f := tu.NewFixture(t, tu.WithFile("expected.out", []byte(want)))
	require.NoError(t, os.MkdirAll(f.AbsPath("tmp"), 0o755))

	name, args := tu.HelperCommand(t, script...)
	err := fixture.Compare(f.Context(), fixture.Options{
		Fixture: f.AbsPath("expected.out"),
		Command: name,
		Args:    args,
		TempDir: f.AbsPath("tmp"),
	})

	entries, rerr := os.ReadDir(f.AbsPath("tmp"))
	require.NoError(t, rerr)
	assert.Empty(t, entries, "output file must be removed")

	return f, err
}

func TestCompare_Match(t *testing.T) {
	t.Parallel()

	_, err := compare(t, "hello fixture\n", "write", "hello fixture\n")
	require.NoError(t, err)
}

func TestCompare_Mismatch(t *testing.T) {
	t.Parallel()

	_, err := compare(t, "hello fixture\n", "write", "hello fixtures\n")
	require.ErrorIs(t, err, fixture.ErrFixtureMismatch)
	assert.NotErrorIs(t, err, fixture.ErrEmptyOutput)

	var merr *fixture.MismatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 13, merr.Offset)
	assert.Equal(t, 14, merr.FixtureSize)
	assert.Equal(t, 15, merr.OutputSize)
	assert.Contains(t, merr.Diff, "hello fixtures")
	assert.Contains(t, err.Error(), "first difference at byte 13")
}

func TestCompare_MismatchPrefix(t *testing.T) {
	t.Parallel()

	_, err := compare(t, "abc", "write", "abcdef")

	var merr *fixture.MismatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 3, merr.Offset)
}

func TestCompare_EmptyOutput(t *testing.T) {
	t.Parallel()

	for _, want := range []string{"", "something"} {
		_, err := compare(t, want, "touch")
		require.ErrorIs(t, err, fixture.ErrEmptyOutput, "fixture %q", want)
		assert.NotErrorIs(t, err, fixture.ErrFixtureMismatch)
	}
}

func TestCompare_EmptyOutputWhenProgramWritesNothing(t *testing.T) {
	t.Parallel()

	_, err := compare(t, "", "exit", "0")
	require.ErrorIs(t, err, fixture.ErrEmptyOutput)
}

func TestCompare_ProcessFailure(t *testing.T) {
	t.Parallel()

	_, err := compare(t, "hello", "write", "hello", "exit", "4")
	require.ErrorIs(t, err, runner.ErrProcessFailure)
	assert.NotErrorIs(t, err, fixture.ErrFixtureMismatch)
	assert.NotErrorIs(t, err, fixture.ErrEmptyOutput)
}

func TestCompare_BinaryMismatchHasNoDiff(t *testing.T) {
	t.Parallel()

	_, err := compare(t, "a\xffb", "write", "a\xffc")

	var merr *fixture.MismatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 2, merr.Offset)
	assert.Empty(t, merr.Diff)
}

func TestCompare_MissingFixture(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	name, args := tu.HelperCommand(t, "write", "x")

	err := fixture.Compare(f.Context(), fixture.Options{
		Fixture: f.AbsPath("nope"),
		Command: name,
		Args:    args,
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompare_PassesStreamsThrough(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t, tu.WithFile("expected.out", []byte("data")))
	name, args := tu.HelperCommand(t, "echo", "progress", "stderr", "warn", "write", "data")

	var out, errOut bytes.Buffer
	err := fixture.Compare(f.Context(), fixture.Options{
		Fixture: f.AbsPath("expected.out"),
		Command: name,
		Args:    args,
		TempDir: f.Jail,
		Stdout:  &out,
		Stderr:  &errOut,
	})
	require.NoError(t, err)
	assert.Equal(t, "progress", out.String())
	assert.Equal(t, "warn", errOut.String())
	assert.Equal(t, []string{"expected.out"}, f.ListJail())
}
