package retry

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Config describes a bounded exponential backoff.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig: 3 attempts, 1s then 2s between them, never more than 5s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 1000 * time.Millisecond,
		MaxDelay:     5000 * time.Millisecond,
		Multiplier:   2,
	}
}

type Result struct {
	Attempts      int
	Success       bool
	TotalDuration time.Duration
	LastError     error
}

type Func func(ctx context.Context, attempt int) error

// Do runs fn until it succeeds, MaxAttempts is reached or ctx is done.
func Do(ctx context.Context, cfg Config, fn Func) Result {
	start := time.Now()
	res := Result{}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res.Attempts = attempt

		err := fn(ctx, attempt)
		if err == nil {
			res.Success = true
			res.LastError = nil
			res.TotalDuration = time.Since(start)
			if attempt > 1 {
				logrus.WithFields(logrus.Fields{
					"attempts": attempt,
					"duration": res.TotalDuration,
				}).Info("operation succeeded after retry")
			}
			return res
		}
		res.LastError = err

		if attempt == maxAttempts {
			break
		}
		if ctx.Err() != nil {
			res.LastError = ctx.Err()
			break
		}

		delay := Delay(cfg, attempt)
		logrus.WithFields(logrus.Fields{
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
			"delay":       delay,
			"error":       err.Error(),
		}).Warn("operation failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			res.LastError = ctx.Err()
			res.TotalDuration = time.Since(start)
			return res
		}
	}

	res.TotalDuration = time.Since(start)
	return res
}

// Delay returns the wait after the given failed attempt (1-based).
func Delay(cfg Config, attempt int) time.Duration {
	mult := cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(cfg.InitialDelay) * math.Pow(mult, float64(attempt-1))
	if cfg.MaxDelay > 0 && d > float64(cfg.MaxDelay) {
		d = float64(cfg.MaxDelay)
	}
	return time.Duration(d)
}
