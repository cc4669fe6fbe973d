package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlrickert/testtools/fixture"
	std "github.com/jlrickert/testtools/pkg"
)

// NewCompareFixtureCommand returns the fixture comparator:
//
//	comparefixture -f FIXTURE COMMAND [ARG...]
func NewCompareFixtureCommand() *cobra.Command {
	t, cmd := newTool(
		"comparefixture",
		"comparefixture -f FIXTURE COMMAND [ARG...]",
		"Run program with arguments, compare output to fixture",
	)

	var fixturePath string
	cmd.Args = cobra.MinimumNArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := t.toolContext(cmd.Context())
		if err != nil {
			return err
		}
		stream := std.StreamFromContext(ctx)
		return fixture.Compare(ctx, fixture.Options{
			Fixture: fixturePath,
			Command: args[0],
			Args:    args[1:],
			Stdout:  stream.Out,
			Stderr:  stream.Err,
		})
	}

	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "reference file the output must equal")
	_ = cmd.MarkFlagRequired("fixture")
	cmd.Flags().SetInterspersed(false)
	return cmd
}
