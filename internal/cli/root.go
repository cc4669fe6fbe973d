package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	std "github.com/jlrickert/testtools/pkg"
)

const envPrefix = "TESTTOOLS"

// Set through -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
)

func versionString() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// tool carries the pieces shared by every command: its name, the viper
// instance its flags are bound to, and the stream it writes through.
type tool struct {
	name string
	v    *viper.Viper
}

// newTool builds the root command for a tool and registers the logging
// flags. The returned tool resolves configuration for run functions.
func newTool(name, use, short string) (*tool, *cobra.Command) {
	t := &tool{name: name, v: viper.New()}

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(name + " {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	bindFlags(t.v, flags, "log-level", "log-format")

	return t, cmd
}

// bindFlags binds the named flags to v. A flag set on the command line wins
// over TESTTOOLS_<NAME> in the environment, which wins over the flag default.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range names {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// toolContext returns ctx carrying a logger configured from flags and
// environment. Logs go to the stream's stderr.
func (t *tool) toolContext(ctx context.Context) (context.Context, error) {
	format := strings.ToLower(t.v.GetString("log-format"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("invalid log format %q: want text or json", format)
	}

	stream := std.StreamFromContext(ctx)
	lg := std.NewLogger(std.LoggerConfig{
		Tool:    t.name,
		Version: Version,
		Out:     stream.Err,
		Level:   std.ParseLevel(t.v.GetString("log-level")),
		JSON:    format == "json",
	})
	return std.WithLogger(ctx, lg), nil
}
