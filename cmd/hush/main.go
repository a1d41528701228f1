// Package main implements the hush CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hush/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hush",
	Short: "Remove console.log and console.warn calls from JavaScript files",
	Long: `hush rewrites JavaScript sources in place, dropping console.log and
console.warn statements while leaving console.error untouched.

Without a subcommand it processes the files listed in the nearest hush.toml,
or flappy-bird.js and leaderboard.js in the current directory.`,
	Args:               cobra.NoArgs,
	SilenceUsage:       true,
	PersistentPreRunE:  beforeRun,
	PersistentPostRunE: stopProfiling,
	RunE:               runDefault,
}

// main registers subcommands and global flags, then executes the root command.
// Any command error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(stripCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides [log].level")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")

	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when RunE fails.
	_ = stopProfiling(rootCmd, nil)
	if err != nil {
		os.Exit(1)
	}
}

func beforeRun(cmd *cobra.Command, args []string) error {
	if err := applyColorFlag(cmd, args); err != nil {
		return err
	}
	session, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profileSession = session
	return nil
}

func applyColorFlag(cmd *cobra.Command, _ []string) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor, err := resolveColor(value, isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	color.NoColor = !useColor
	return nil
}

func resolveColor(value string, tty bool) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return tty, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
