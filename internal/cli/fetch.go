package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlrickert/testtools/fetch"
	std "github.com/jlrickert/testtools/pkg"
)

// NewFetchCommand returns the conditional fetcher:
//
//	fetch URL DESTINATION
func NewFetchCommand() *cobra.Command {
	t, cmd := newTool(
		"fetch",
		"fetch URL DESTINATION",
		"Download URL to DESTINATION unless it already exists",
	)

	var progress bool
	cmd.Args = cobra.ExactArgs(2)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := t.toolContext(cmd.Context())
		if err != nil {
			return err
		}
		stream := std.StreamFromContext(ctx)

		var opts []fetch.Option
		show := stream.ErrIsTTY
		if cmd.Flags().Changed("progress") {
			show = progress
		}
		if show {
			opts = append(opts, fetch.WithProgress(stream.Err))
		}

		_, err = fetch.Fetch(ctx, args[0], args[1], opts...)
		return err
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "draw a progress bar on stderr (default: when stderr is a terminal)")
	return cmd
}
