package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quill/internal/version"
)

// errDiagnostics сигнализирует, что диагностики уже выведены и нужен exit 1.
var errDiagnostics = errors.New("diagnostics reported")

// newRootCmd builds the command tree with fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "Quill script front end",
		Long:  `Quill lexes and parses .ql scripts and reports syntax diagnostics`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			st, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(withSettings(cmd.Context(), st))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.Int("context", 1, "lines of source context around labels")
	pf.String("path-mode", "relative", "how to print file paths (relative|absolute|basename|auto)")
	pf.String("config", "", "path to quill.toml (default: search upwards from the working directory)")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// main executes the root command. Fatal errors print `error: ...`; both
// fatal errors and reported diagnostics exit with status 1.
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
