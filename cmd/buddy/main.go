package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bytebuddy/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "buddy",
	Short: "Runtime type generation and method binding toolchain",
	Long:  `Buddy materializes described types into loadable dispatch artifacts`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(weaveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	cobra.OnInitialize(func() {
		mode, _ := rootCmd.PersistentFlags().GetString("color")
		if err := configureColor(mode); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func configureColor(mode string) error {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func showTimings(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("timings")
	return v
}
