package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/config"
	"quill/internal/diagfmt"
)

// settings — итоговые настройки: quill.toml, поверх него явно заданные флаги.
type settings struct {
	configPath     string
	colorMode      string
	quiet          bool
	timings        bool
	maxDiagnostics int
	context        int
	pathMode       diagfmt.PathMode
	check          config.Check
}

type settingsKey struct{}

func withSettings(ctx context.Context, st settings) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, settingsKey{}, st)
}

func settingsFrom(cmd *cobra.Command) settings {
	if st, ok := cmd.Context().Value(settingsKey{}).(settings); ok {
		return st
	}
	return settingsFromConfig(config.Default(), "")
}

func settingsFromConfig(cfg config.Config, path string) settings {
	mode, ok := diagfmt.ParsePathMode(cfg.Diagnostics.PathMode)
	if !ok {
		mode = diagfmt.PathModeRelative
	}
	return settings{
		configPath:     path,
		colorMode:      cfg.Diagnostics.Color,
		maxDiagnostics: cfg.Diagnostics.Max,
		context:        cfg.Diagnostics.Context,
		pathMode:       mode,
		check:          cfg.Check,
	}
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	loaded, err := config.Load(configPath, ".")
	if err != nil {
		return settings{}, err
	}
	st := settingsFromConfig(loaded.Config, loaded.Path)

	if flags.Changed("color") {
		if st.colorMode, err = flags.GetString("color"); err != nil {
			return settings{}, fmt.Errorf("failed to get color flag: %w", err)
		}
		switch st.colorMode {
		case "auto", "on", "off":
		default:
			return settings{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", st.colorMode)
		}
	}
	if st.quiet, err = flags.GetBool("quiet"); err != nil {
		return settings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if st.timings, err = flags.GetBool("timings"); err != nil {
		return settings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if flags.Changed("max-diagnostics") {
		if st.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return settings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if st.maxDiagnostics < 0 {
			return settings{}, fmt.Errorf("--max-diagnostics must be >= 0")
		}
	}
	if flags.Changed("context") {
		if st.context, err = flags.GetInt("context"); err != nil {
			return settings{}, fmt.Errorf("failed to get context flag: %w", err)
		}
		if st.context < 0 {
			return settings{}, fmt.Errorf("--context must be >= 0")
		}
	}
	if flags.Changed("path-mode") {
		raw, err := flags.GetString("path-mode")
		if err != nil {
			return settings{}, fmt.Errorf("failed to get path-mode flag: %w", err)
		}
		mode, ok := diagfmt.ParsePathMode(raw)
		if !ok {
			return settings{}, fmt.Errorf("invalid --path-mode value %q", raw)
		}
		st.pathMode = mode
	}
	return st, nil
}

// useColor resolves the color mode against the stream diagnostics go to.
func (st settings) useColor(w io.Writer) bool {
	switch st.colorMode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

func (st settings) prettyOpts(w io.Writer) diagfmt.PrettyOpts {
	opts := diagfmt.DefaultPrettyOpts()
	opts.Color = st.useColor(w)
	opts.Context = st.context
	opts.PathMode = st.pathMode
	return opts
}
