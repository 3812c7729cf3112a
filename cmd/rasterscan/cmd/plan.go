// cmd/rasterscan/cmd/plan.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/rasterscan/internal/scan"
	"github.com/tamzrod/rasterscan/internal/session"
)

type planFlags struct {
	xStart, yStart float64
	xEnd, yEnd     float64
	steps          int
	dwell          float64
}

func (p *planFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&p.xStart, "x-start", 0, "X start voltage (-xs)")
	f.Float64Var(&p.yStart, "y-start", 0, "Y start voltage (-ys)")
	f.Float64Var(&p.xEnd, "x-end", 0, "X end voltage (-xe)")
	f.Float64Var(&p.yEnd, "y-end", 0, "Y end voltage (-ye)")
	f.IntVar(&p.steps, "steps", 0, "points per axis, at least 2 (-st)")
	f.Float64Var(&p.dwell, "dwell", 0, "dwell per point in milliseconds (-dw)")
}

// plan starts from the configured scan and applies the flags that were set.
func (p *planFlags) plan(cmd *cobra.Command) (scan.Plan, error) {
	base, err := session.BuildPlan(cfg)
	if err != nil {
		return scan.Plan{}, err
	}

	f := cmd.Flags()
	if f.Changed("x-start") {
		base.XStart = p.xStart
	}
	if f.Changed("y-start") {
		base.YStart = p.yStart
	}
	if f.Changed("x-end") {
		base.XEnd = p.xEnd
	}
	if f.Changed("y-end") {
		base.YEnd = p.yEnd
	}
	if f.Changed("steps") {
		base.Steps = p.steps
	}
	if f.Changed("dwell") {
		base.DwellMs = p.dwell
	}

	if err := base.Validate(); err != nil {
		return scan.Plan{}, err
	}
	return base, nil
}
