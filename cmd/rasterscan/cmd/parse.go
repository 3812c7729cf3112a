// cmd/rasterscan/cmd/parse.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/rasterscan/internal/session"
)

var parseCmd = &cobra.Command{
	Use:   "parse [telemetry-file]",
	Short: "Reconstruct a matrix from a captured telemetry file",
	Long: `Parses a telemetry file written by an earlier device scan, writes the
matrix file and plots it. No device is contacted. Without an argument the
configured telemetry file is used. --steps must match the scan that wrote
the file; it defaults to scan.steps.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}

		store, err := openArchive()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		s, err := session.New(cfg, nil, sessionOptions(store))
		if err != nil {
			return err
		}
		steps := *cfg.Scan.Steps
		if cmd.Flags().Changed("steps") {
			steps = parseSteps
		}
		rep, err := s.Reconstruct(cmd.Context(), path, steps)
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	},
}

var parseSteps int

func init() {
	parseCmd.Flags().IntVar(&parseSteps, "steps", 0, "points per axis of the captured scan (-st)")
	rootCmd.AddCommand(parseCmd)
}
