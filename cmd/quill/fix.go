package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/fix"
	"quill/internal/source"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] file.ql",
		Short: "Apply suggested fixes for unclosed delimiters",
		Args:  cobra.ExactArgs(1),
		RunE:  withTracing(runFix),
	}
	cmd.Flags().Bool("write", false, "rewrite the file in place instead of printing the result")
	cmd.Flags().Int("max-rounds", 16, "maximum number of fix rounds")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	rounds, err := cmd.Flags().GetInt("max-rounds")
	if err != nil {
		return fmt.Errorf("failed to get max-rounds flag: %w", err)
	}
	st := settingsFrom(cmd)
	errOut := cmd.ErrOrStderr()
	path := args[0]

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	res, err := fix.Repair(cmd.Context(), path, fs.Get(id).Content, rounds, driver.Options{
		MaxDiagnostics: st.maxDiagnostics,
	})
	if err != nil {
		return err
	}

	if !st.quiet {
		for _, applied := range res.Applied {
			fmt.Fprintf(errOut, "fixed [%s]: %s\n", applied.Code.ID(), applied.Title)
		}
	}
	if write {
		if len(res.Applied) > 0 {
			mode := os.FileMode(0o644)
			if info, statErr := os.Stat(path); statErr == nil {
				mode = info.Mode().Perm()
			}
			if err := os.WriteFile(path, res.Content, mode); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	} else if _, err := cmd.OutOrStdout().Write(res.Content); err != nil {
		return err
	}

	final := res.Final
	if !final.Status.Failed() {
		return nil
	}
	emitter := diagfmt.NewEmitter(errOut, final.FileSet, st.prettyOpts(errOut))
	for _, d := range final.Bag.Items() {
		emitter.Report(d)
	}
	reportDropped(cmd, final.Bag.Dropped())
	return errDiagnostics
}
