package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlrickert/testtools/match"
)

// NewMatchCommand returns the pattern matcher:
//
//	match -e REGEX [-e REGEX...] COMMAND [ARG...]
func NewMatchCommand() *cobra.Command {
	t, cmd := newTool(
		"match",
		"match -e REGEX [-e REGEX...] COMMAND [ARG...]",
		"Run program with arguments, match stdout against regexes",
	)

	var patterns []string
	cmd.Args = cobra.MinimumNArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := t.toolContext(cmd.Context())
		if err != nil {
			return err
		}
		return match.Match(ctx, match.Options{
			Patterns: patterns,
			Command:  args[0],
			Args:     args[1:],
		})
	}

	cmd.Flags().StringArrayVarP(&patterns, "regex", "e", nil, "regular expression stdout must match (repeatable)")
	cmd.Flags().SetInterspersed(false)
	return cmd
}
