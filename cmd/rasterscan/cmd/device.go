// cmd/rasterscan/cmd/device.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/rasterscan/internal/archive"
	dmodbus "github.com/tamzrod/rasterscan/internal/device/modbus"
	"github.com/tamzrod/rasterscan/internal/session"
)

var (
	deviceFlags planFlags
	echo        bool
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Run the on-device scan script and capture its output",
	Long: `Passes the scan parameters to the on-device script, starts it and drains
its debug output into the telemetry file until the completion marker shows up.
The captured grid is then reconstructed and written as a matrix.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := deviceFlags.plan(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("echo") {
			cfg.Telemetry.Echo = echo
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

		rep, err := s.RunDevice(cmd.Context(), plan)
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	},
}

func init() {
	deviceFlags.register(deviceCmd)
	deviceCmd.Flags().BoolVarP(&echo, "echo", "e", false, "mirror telemetry to the console")
	rootCmd.AddCommand(deviceCmd)
}

// openSession connects to the configured device. The caller closes it.
func openSession(store *archive.Store) (*session.Session, *dmodbus.Client, error) {
	regs, err := session.BuildRegisters(cfg)
	if err != nil {
		return nil, nil, err
	}
	dev, err := session.OpenDevice(cfg, regs, logger)
	if err != nil {
		return nil, nil, err
	}
	s, err := session.New(cfg, dev, sessionOptions(store))
	if err != nil {
		_ = dev.Close()
		return nil, nil, err
	}
	return s, dev, nil
}
