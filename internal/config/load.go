// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Error is a config load or validation failure.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ConfigPath identifies the file for status classification.
func (e *Error) ConfigPath() string { return e.Path }

// Load reads a YAML config file and fills unset fields with defaults.
// An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Path: path, Err: err}
		}
		if err := decode(b, cfg); err != nil {
			return nil, &Error{Path: path, Err: err}
		}
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// Parse decodes YAML bytes and fills unset fields with defaults.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := decode(b, cfg); err != nil {
		return nil, &Error{Err: err}
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
