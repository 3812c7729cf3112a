// internal/scan/arm.go
package scan

import (
	"fmt"

	"github.com/tamzrod/rasterscan/internal/device"
)

// ScriptRegisters are the named scratch registers an on-device script reads
// its scan parameters from.
type ScriptRegisters struct {
	XStart  string
	YStart  string
	XEnd    string
	YEnd    string
	Steps   string
	Dwell   string
	RunFlag string
}

// Arm passes plan to the on-device script and sets its run flag.
// Voltages are written as given; the script owns clamping on this path.
// The run flag is written last.
func Arm(dev device.Device, plan Plan, regs ScriptRegisters) error {
	writes := []struct {
		name  string
		value float64
	}{
		{regs.XStart, plan.XStart},
		{regs.YStart, plan.YStart},
		{regs.XEnd, plan.XEnd},
		{regs.YEnd, plan.YEnd},
		{regs.Steps, float64(plan.Steps)},
		{regs.Dwell, plan.DwellMs},
		{regs.RunFlag, 1},
	}

	for _, w := range writes {
		if err := dev.WriteName(w.name, w.value); err != nil {
			return fmt.Errorf("scan: arm %s: %w", w.name, err)
		}
	}
	return nil
}
