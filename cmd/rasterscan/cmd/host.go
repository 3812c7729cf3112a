// cmd/rasterscan/cmd/host.go
package cmd

import "github.com/spf13/cobra"

var hostFlags planFlags

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Sweep point by point from the host",
	Long: `Writes each grid point to the axis DACs, waits the dwell time and samples
the counter. Both axes are returned to 0V when the sweep ends.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := hostFlags.plan(cmd)
		if err != nil {
			return err
		}

		store, err := openArchive()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		s, dev, err := openSession(store)
		if err != nil {
			return err
		}
		defer dev.Close()

		rep, err := s.RunHost(cmd.Context(), plan)
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	},
}

func init() {
	hostFlags.register(hostCmd)
	rootCmd.AddCommand(hostCmd)
}
