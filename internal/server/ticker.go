package server

import (
	"time"

	"go.uber.org/zap"
)

// TickFunc is called once per tick with the elapsed time in seconds since
// the previous tick.
type TickFunc func(deltaTime float64)

// Ticker drives a fixed-interval update loop. It implements Service: Start
// blocks until Stop is called.
type Ticker struct {
	interval time.Duration
	tick     TickFunc
	logger   *zap.Logger
	done     chan struct{}
}

// NewTicker creates a tick service.
//
// Precondition: interval > 0; tick and logger must be non-nil.
func NewTicker(interval time.Duration, tick TickFunc, logger *zap.Logger) *Ticker {
	return &Ticker{
		interval: interval,
		tick:     tick,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called. The delta passed to the
// tick function is measured, not assumed, so a slow tick does not distort
// elapsed game time.
func (t *Ticker) Start() error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("tick loop started",
		zap.Duration("interval", t.interval),
	)

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			t.tick(now.Sub(last).Seconds())
			last = now
		case <-t.done:
			return nil
		}
	}
}

// Stop terminates the tick loop.
func (t *Ticker) Stop() {
	close(t.done)
}
