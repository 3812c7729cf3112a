// cmd/rasterscan/cmd/history.go
package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tamzrod/rasterscan/internal/session"
	"github.com/tamzrod/rasterscan/internal/status"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sessions from the archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("no archive configured (archive.path)")
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no sessions recorded")
			return nil
		}

		fmt.Printf("%-5s %-19s %-7s %-16s %9s %-9s %s\n", "ID", "STARTED", "MODE", "OUTCOME", "ELAPSED", "GRID", "PLAN")
		for _, e := range entries {
			grid := "-"
			if e.Rows > 0 {
				grid = fmt.Sprintf("%dx%d", e.Rows, e.Cols)
			}
			fmt.Printf("%-5d %-19s %-7s %s %9s %-9s %s\n",
				e.ID,
				e.StartedAt.Local().Format(time.DateTime),
				e.Mode,
				outcome(e.Code),
				e.Duration().Round(time.Millisecond),
				grid,
				e.Plan,
			)
			if e.Error != "" {
				fmt.Printf("      %s\n", e.Error)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of sessions to show")
	rootCmd.AddCommand(historyCmd)
}

func outcome(code uint16) string {
	label := fmt.Sprintf("%-16s", status.Name(code))
	if code == status.CodeOK {
		return color.GreenString(label)
	}
	return color.RedString(label)
}

func printReport(rep *session.Report) {
	fmt.Printf("%s %s in %s\n", rep.Mode, outcome(rep.Code), rep.Duration().Round(time.Millisecond))
	if rep.TelemetryPath != "" {
		fmt.Printf("  telemetry: %s (%d bytes)\n", rep.TelemetryPath, rep.TelemetryBytes)
	}
	if rep.MatrixPath != "" {
		fmt.Printf("  matrix:    %s (%dx%d)\n", rep.MatrixPath, rep.Rows, rep.Cols)
	}
	if rep.ImagePath != "" {
		fmt.Printf("  image:     %s\n", rep.ImagePath)
	}
	if rep.PlotError != "" {
		color.Yellow("  plot:      %s", rep.PlotError)
	}
}
