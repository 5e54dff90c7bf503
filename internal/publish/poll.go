package publish

import (
	"context"
	"time"
)

type PollConfig struct {
	Interval    time.Duration
	MaxInterval time.Duration
	MaxAttempts int
	Timeout     time.Duration
	Multiplier  float64
}

func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:    time.Second,
		MaxInterval: 10 * time.Second,
		MaxAttempts: 120,
		Timeout:     10 * time.Minute,
		Multiplier:  1.5,
	}
}

func (c PollConfig) withDefaults() PollConfig {
	d := DefaultPollConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.MaxInterval < c.Interval {
		c.MaxInterval = max(c.Interval, d.MaxInterval)
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Multiplier < 1 {
		c.Multiplier = d.Multiplier
	}
	return c
}

// Poll calls check until it reports done, returns an error, the attempts run
// out or ctx ends. Each call waits first, so the first check happens one
// interval after Poll starts.
func Poll(ctx context.Context, cfg PollConfig, check func(ctx context.Context) (bool, error)) error {
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	timer := time.NewTimer(cfg.Interval)
	defer timer.Stop()

	delay := cfg.Interval
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxInterval)
		timer.Reset(delay)
	}

	return ErrPollExhausted
}
