// internal/poller/runner.go
package poller

// Run calls step until it reports Done, fails, or stays Idle past the idle window.
// Steps never overlap. Nothing is retried: an error from step is returned as-is.
func (p *Poller) Run(step Step) error {
	last := p.now()

	for {
		prog, err := step()
		if err != nil {
			return err
		}

		switch prog {
		case Done:
			return nil

		case Data:
			last = p.now()

		default:
			if p.Idle(last) {
				return ErrIdleTimeout
			}
			if p.cfg.Interval > 0 {
				p.sleep(p.cfg.Interval)
			}
		}
	}
}
