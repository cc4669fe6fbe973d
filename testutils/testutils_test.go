package testutils_test

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	std "github.com/jlrickert/testtools/pkg"
	tu "github.com/jlrickert/testtools/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelperProcess(t *testing.T) { tu.RunHelperProcess() }

// TestFixture_WithJail verifies that the jail provides isolated
// filesystem operations.
func TestFixture_WithJail(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t, tu.WithFile("seed/a.txt", []byte("seeded")))
	require.NotEmpty(t, f.Jail)

	data := []byte("test content")
	f.MustWriteJailFile("test.txt", data, 0o644)

	assert.Equal(t, data, f.MustReadJailFile("test.txt"))
	assert.Equal(t, []byte("seeded"), f.MustReadJailFile("/seed/a.txt"))
	assert.True(t, f.JailFileExists("seed/a.txt"))
	assert.False(t, f.JailFileExists("missing.txt"))
	assert.Equal(t, []string{"seed/a.txt", "test.txt"}, f.ListJail())
}

func TestFixture_AbsPath(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)

	assert.Equal(t, filepath.Join(f.Jail, "a", "b"), f.AbsPath("a/b"))
	inside := filepath.Join(f.Jail, "x")
	assert.Equal(t, inside, f.AbsPath(inside))
	assert.Equal(t, filepath.Join(f.Jail, "etc", "passwd"), f.AbsPath("/etc/passwd"))
}

// TestFixture_ContextValues verifies the context carries the fixture logger,
// clock and stream.
func TestFixture_ContextValues(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := tu.NewFixture(t, tu.WithClock(t0), tu.WithTTY(true))
	ctx := f.Context()

	assert.Equal(t, t0, std.ClockFromContext(ctx).Now())
	f.Advance(time.Hour)
	assert.Equal(t, t0.Add(time.Hour+10*time.Millisecond), f.Clock().Now())

	s := std.StreamFromContext(ctx)
	assert.Same(t, f.Stream(), s)
	assert.Same(t, f.Clock(), std.ClockFromContext(ctx))
	assert.True(t, s.IsTTY)
	assert.True(t, s.ErrIsTTY)
	_, _ = s.Out.Write([]byte("out"))
	_, _ = s.Err.Write([]byte("err"))
	assert.Equal(t, "out", string(f.ReadStdout()))
	assert.Equal(t, "err", string(f.ReadStderr()))

	std.LoggerFromContext(ctx).Info("hello")
	f.RequireLog(slog.LevelInfo, "hello")
	assert.Len(t, f.LogEntries("hello"), 1)
}

func TestHelperCommand_Script(t *testing.T) {
	t.Parallel()

	f := tu.NewFixture(t)
	out := f.AbsPath("out.txt")

	name, args := tu.HelperCommand(t, "echo", "to-stdout", "stderr", "to-stderr", "write", "payload")
	cmd := exec.Command(name, append(args, out)...)
	stdout, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "to-stdout", string(stdout))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestHelperCommand_Exit(t *testing.T) {
	t.Parallel()

	name, args := tu.HelperCommand(t, "exit", "7")
	err := exec.Command(name, args...).Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.ExitCode())
}
