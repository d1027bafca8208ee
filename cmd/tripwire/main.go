package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tripwire/internal/config"
	"tripwire/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tripwire",
	Short: "Debugger-aware assertions, traces and fatal reports",
	Long: `tripwire inspects the debugger state of a process and exercises the
assertion, trace and fatal-report paths end to end`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(fireCmd)
	rootCmd.AddCommand(versionCmd)

	addSinkFlags(rootCmd)
}

// addSinkFlags registers the persistent flags read by loadConfig. Unset
// flags leave the file and environment values alone.
func addSinkFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "TOML config file (overrides "+config.EnvConfig+")")
	cmd.PersistentFlags().String("output", "", "diagnostic output: -, stderr, stdout or a file path")
	cmd.PersistentFlags().String("format", "", "diagnostic format (text|ndjson|msgpack)")
	cmd.PersistentFlags().String("color", "", "colorize text diagnostics (auto|on|off)")
	cmd.PersistentFlags().Int("max-width", 0, "truncate message text to this many cells (0=unlimited)")
}

// main sets the version, executes the root command and exits with status 1
// when it returns an error.
func main() {
	rootCmd.Version = version.Version

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
