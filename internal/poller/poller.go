// internal/poller/poller.go
package poller

import (
	"errors"
	"time"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	// Interval is the delay after an Idle step. Zero polls back-to-back.
	Interval time.Duration

	// IdleTimeout is the longest tolerated run of Idle steps, measured
	// from the last Data step (or from the start).
	IdleTimeout time.Duration
}

// Poller is a blocking, clock-driven poll loop.
// It owns no goroutines and no cancellation: the idle timeout is the only way out
// besides Done or an error.
type Poller struct {
	cfg   Config
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a poller with immutable config.
func New(cfg Config) (*Poller, error) {
	if cfg.Interval < 0 {
		return nil, errors.New("poller: interval must be >= 0")
	}
	if cfg.IdleTimeout <= 0 {
		return nil, errors.New("poller: idle timeout must be > 0")
	}
	return &Poller{cfg: cfg, now: time.Now, sleep: time.Sleep}, nil
}

// Config returns the poller's config.
func (p *Poller) Config() Config { return p.cfg }

// Idle reports whether more than the idle window has passed since last.
func (p *Poller) Idle(last time.Time) bool {
	return p.now().Sub(last) > p.cfg.IdleTimeout
}
