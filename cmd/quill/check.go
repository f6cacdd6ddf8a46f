package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quill/internal/diag"
	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/ui"
	"quill/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] path",
		Short: "Check every script under a directory (or a single file)",
		Long: `Check lexes and parses all .ql files under path in parallel and reports
diagnostics in path order. The exit status is 1 if any file fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withTracing(runCheck),
	}
	cmd.Flags().Int("jobs", 0, "max parallel files (0 = GOMAXPROCS)")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().String("format", "pretty", "diagnostic format (pretty|short|json)")
	return cmd
}

type checkFlags struct {
	jobs   int
	cache  bool
	ui     uiMode
	format string
}

func readCheckFlags(cmd *cobra.Command, st settings) (checkFlags, error) {
	cf := checkFlags{jobs: st.check.Jobs, cache: st.check.Cache}
	var err error
	if cmd.Flags().Changed("jobs") {
		if cf.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return cf, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if cmd.Flags().Changed("cache") {
		if cf.cache, err = cmd.Flags().GetBool("cache"); err != nil {
			return cf, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return cf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cf.ui, err = readUIMode(uiValue); err != nil {
		return cf, err
	}
	if cf.format, err = cmd.Flags().GetString("format"); err != nil {
		return cf, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch cf.format {
	case "pretty", "short", "json":
	default:
		return cf, fmt.Errorf("unknown format: %s", cf.format)
	}
	return cf, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	st := settingsFrom(cmd)
	cf, err := readCheckFlags(cmd, st)
	if err != nil {
		return err
	}
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	errOut := cmd.ErrOrStderr()

	opts := driver.Options{
		MaxDiagnostics: st.maxDiagnostics,
		Extensions:     st.check.Extensions,
		Jobs:           cf.jobs,
		CacheSalt:      version.Version,
	}
	if cf.cache {
		if opts.Cache, err = driver.OpenDiskCache("quill"); err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	var res *driver.CheckResult
	if !st.quiet && shouldUseTUI(cf.ui, errOut) {
		res, err = checkWithProgress(cmd, root, opts)
	} else {
		res, err = driver.CheckDir(cmd.Context(), root, opts)
	}
	if err != nil {
		return err
	}

	if err := renderCheck(cmd, st, cf.format, res); err != nil {
		return err
	}
	if !st.quiet {
		cached := 0
		for _, fr := range res.Files {
			if fr.Cached {
				cached++
			}
		}
		fmt.Fprintf(errOut, "checked %d files (%d cached): %d failed\n", len(res.Files), cached, res.Failed())
	}
	printTimings(errOut, st, "check", res.Timings())

	if res.Failed() > 0 {
		return errDiagnostics
	}
	return nil
}

// checkWithProgress runs CheckDir in the background while the progress view
// consumes its events on the calling goroutine.
func checkWithProgress(cmd *cobra.Command, root string, opts driver.Options) (*driver.CheckResult, error) {
	files, err := driver.Discover(root, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", root, err)
	}
	events := make(chan driver.Event, 64)
	opts.Progress = driver.ChannelSink{Ch: events}

	type outcome struct {
		res *driver.CheckResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := driver.CheckDir(cmd.Context(), root, opts)
		close(events)
		done <- outcome{res, err}
	}()

	if uiErr := ui.RunProgress(cmd.ErrOrStderr(), "check "+root, files, events); uiErr != nil {
		// UI упал: дочитываем события, чтобы воркеры не заблокировались
		for range events {
		}
	}
	out := <-done
	return out.res, out.err
}

func renderCheck(cmd *cobra.Command, st settings, format string, res *driver.CheckResult) error {
	errOut := cmd.ErrOrStderr()
	switch format {
	case "json":
		all := diag.NewBag(0)
		for _, fr := range res.Files {
			if fr.Bag != nil {
				all.Merge(fr.Bag)
			}
		}
		if err := diagfmt.JSON(cmd.OutOrStdout(), all, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         st.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		}); err != nil {
			return err
		}
		printLoadErrors(errOut, res)
		return nil
	case "short":
		for _, fr := range res.Files {
			if fr.Err != nil {
				fmt.Fprintf(errOut, "error: %v\n", fr.Err)
				continue
			}
			if fr.Bag.Len() == 0 {
				continue
			}
			if err := diagfmt.Short(cmd.OutOrStdout(), fr.Bag, res.FileSet); err != nil {
				return err
			}
		}
		return nil
	default:
		opts := st.prettyOpts(errOut)
		for _, fr := range res.Files {
			if fr.Err != nil {
				fmt.Fprintf(errOut, "error: %v\n", fr.Err)
				continue
			}
			if fr.Bag.Len() > 0 || fr.Bag.Dropped() > 0 {
				diagfmt.Pretty(errOut, fr.Bag, res.FileSet, opts)
			}
		}
		return nil
	}
}

func printLoadErrors(w io.Writer, res *driver.CheckResult) {
	for _, fr := range res.Files {
		if fr.Err != nil {
			fmt.Fprintf(w, "error: %v\n", fr.Err)
		}
	}
}
