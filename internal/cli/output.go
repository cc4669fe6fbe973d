package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

func printError(out io.Writer, colored bool, format string, args ...any) {
	tag := color.New(color.FgRed, color.Bold)
	if colored {
		tag.EnableColor()
	} else {
		tag.DisableColor()
	}
	fmt.Fprintf(out, "%s %s\n", tag.Sprint("[ERROR]"), fmt.Sprintf(format, args...))
}
