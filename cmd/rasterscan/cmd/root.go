// cmd/rasterscan/cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tamzrod/rasterscan/internal/archive"
	"github.com/tamzrod/rasterscan/internal/config"
	"github.com/tamzrod/rasterscan/internal/session"
	"github.com/tamzrod/rasterscan/internal/status"
)

var rootCmd = &cobra.Command{
	Use:   "rasterscan",
	Short: "Two-axis raster scan and telemetry capture for T-series DAQs",
	Long: `rasterscan sweeps two DAC outputs over a voltage grid and records a pulse
counter at every point, either point by point from the host or through an
on-device script whose debug output is captured and reconstructed.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	cfgPath  string
	logLevel string

	cfg    *config.Config
	logger zerolog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (yaml), defaults when empty")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "trace, debug, info, warn or error")
	rootCmd.SetGlobalNormalizationFunc(legacyFlagNames)
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return int(status.CodeOK)
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
	return int(status.Classify(err))
}

func setup(cmd *cobra.Command, _ []string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return fmt.Errorf("log level %q: %w", logLevel, err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()

	// Load + validate config
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(c); err != nil {
		var ce *config.Error
		if errors.As(err, &ce) && cfgPath != "" {
			ce.Path = cfgPath
		}
		return err
	}
	config.Normalize(c)
	cfg = c
	return nil
}

// openArchive returns nil when no archive is configured.
func openArchive() (*archive.Store, error) {
	if cfg.Archive.Path == "" {
		return nil, nil
	}
	return archive.Open(cfg.Archive.Path)
}

func sessionOptions(store *archive.Store) session.Options {
	opts := session.Options{
		Logger: logger,
		Echo:   echoWriter{c: color.New(color.FgCyan)},
	}
	if store != nil {
		opts.Archive = store
	}
	return opts
}

// echoWriter mirrors telemetry to the console in colour.
type echoWriter struct {
	c *color.Color
}

func (e echoWriter) Write(p []byte) (int, error) {
	if _, err := e.c.Fprint(color.Output, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// legacyNames maps the single-dash plan flags of earlier releases to their long names.
var legacyNames = map[string]string{
	"xs": "x-start",
	"ys": "y-start",
	"xe": "x-end",
	"ye": "y-end",
	"st": "steps",
	"dw": "dwell",
}

func legacyFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if long, ok := legacyNames[name]; ok {
		return pflag.NormalizedName(long)
	}
	return pflag.NormalizedName(name)
}

// LegacyArgs rewrites "-xs 1" style flags to "--xs 1" so pflag does not read
// them as a group of one-letter shorthands.
func LegacyArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a
		if !strings.HasPrefix(a, "-") || strings.HasPrefix(a, "--") {
			continue
		}
		name, _, _ := strings.Cut(a[1:], "=")
		if _, ok := legacyNames[name]; ok {
			out[i] = "-" + a
		}
	}
	return out
}
