package eventloop

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Ticker schedules a periodic hook with cron. The cron goroutine only posts the hook onto
// the loop, so the hook runs between the loop's other tasks.
type Ticker struct {
	cron   *cron.Cron
	loop   *Loop
	hook   func()
	logger zerolog.Logger
}

// NewTicker schedules hook every interval. Intervals below one second are rounded up by cron.
func NewTicker(loop *Loop, interval time.Duration, hook func(), logger zerolog.Logger) (*Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid tick interval %s", interval)
	}

	t := &Ticker{
		cron:   cron.New(),
		loop:   loop,
		hook:   hook,
		logger: logger,
	}
	if _, err := t.cron.AddFunc(fmt.Sprintf("@every %s", interval), t.Tick); err != nil {
		return nil, fmt.Errorf("failed to schedule ticker: %w", err)
	}
	return t, nil
}

// Tick posts the hook onto the loop once
func (t *Ticker) Tick() {
	if !t.loop.Post(t.hook) {
		t.logger.Debug().Msg("Tick skipped")
	}
}

// Start starts the cron scheduler in its own goroutine
func (t *Ticker) Start() {
	t.cron.Start()
	t.logger.Debug().Msg("Ticker started")
}

// Stop stops the scheduler and waits for a running post to return
func (t *Ticker) Stop() {
	<-t.cron.Stop().Done()
	t.logger.Debug().Msg("Ticker stopped")
}
