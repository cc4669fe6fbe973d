package cli

import (
	"context"

	"github.com/spf13/cobra"

	std "github.com/jlrickert/testtools/pkg"
)

// Execute runs cmd with args against the stream in ctx and returns the
// process exit code. Errors are printed once to the stream's stderr.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	stream := std.StreamFromContext(ctx)
	cmd.SetArgs(args)
	cmd.SetIn(stream.In)
	cmd.SetOut(stream.Out)
	cmd.SetErr(stream.Err)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(stream.Err, stream.ErrIsTTY, "%s: %v", cmd.Name(), err)
		return 1
	}
	return 0
}
