// internal/plot/plot.go
package plot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"text/template"
)

// Config describes one heatmap render.
type Config struct {
	Command string // rasterizer binary, e.g. gnuplot
	Script  string // generated script path
	Image   string // output image path
	Matrix  string // matrix file the script reads

	Delimiter string
	Width     int
	Height    int
}

var scriptTmpl = template.Must(template.New("plot").Parse(`set terminal pngcairo size {{.Width}},{{.Height}}
set output '{{.Image}}'
set view map
{{- if .Separator}}
set datafile separator {{.Separator}}
{{- end}}
set xtics rotate by -45
set yrange [0:*] reverse
set cblabel 'Value'
plot '{{.Matrix}}' matrix with image
set output
`))

// Script renders the plotting script for cfg.
// Row 0 of the matrix is drawn at the top.
func Script(cfg Config) ([]byte, error) {
	if cfg.Matrix == "" || cfg.Image == "" {
		return nil, errors.New("plot: matrix and image paths required")
	}

	data := struct {
		Config
		Separator string
	}{Config: cfg, Separator: separator(cfg.Delimiter)}

	var buf bytes.Buffer
	if err := scriptTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("plot: render script: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteScript renders the script to cfg.Script.
func WriteScript(cfg Config) error {
	b, err := Script(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Script, b, 0o644); err != nil {
		return fmt.Errorf("plot: write script: %w", err)
	}
	return nil
}

// Render runs the external rasterizer on cfg.Script. Its combined output is
// copied to out when out is non-nil.
func Render(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.Command == "" {
		return errors.New("plot: command required")
	}
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return fmt.Errorf("plot: %s not available: %w", cfg.Command, err)
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Script)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	if out != nil && buf.Len() > 0 {
		_, _ = out.Write(buf.Bytes())
	}
	if err != nil {
		return fmt.Errorf("plot: %s %s: %w: %s", cfg.Command, cfg.Script, err, strings.TrimSpace(buf.String()))
	}
	return nil
}

// separator maps a matrix delimiter to a gnuplot datafile separator.
// Whitespace delimiters need no separator line.
func separator(delim string) string {
	switch {
	case strings.TrimSpace(delim) == "":
		return ""
	case delim == ",":
		return "comma"
	case delim == "\t":
		return "tab"
	default:
		return fmt.Sprintf("%q", delim)
	}
}
