// Package poller runs fixed-interval background refreshes.
//
// A poller ticks exactly once per interval regardless of how long the
// previous tick took: every tick runs in its own goroutine, so a slow
// fetch can overlap the next one. Tick failures are dropped after being
// logged and counted; the next tick simply tries again.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/martclinic/kiosk/internal/shared/metrics"
)

// TickFunc is one refresh
type TickFunc func(ctx context.Context) error

// Poller calls a TickFunc on a fixed interval until stopped
type Poller struct {
	name     string
	interval time.Duration
	tick     TickFunc
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	// wg tracks the loop and ticks of the current run only
	wg *sync.WaitGroup
}

// New creates a stopped poller
func New(name string, interval time.Duration, tick TickFunc, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger.With(slog.String("poller", name)),
	}
}

// Name identifies the poller in logs and metrics
func (p *Poller) Name() string { return p.name }

// Interval is the tick period
func (p *Poller) Interval() time.Duration { return p.interval }

// Running reports whether Start has been called without a matching Stop
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Start fires one tick immediately and then one per interval. The loop
// ends when ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("poller %s already running", p.name)
	}
	if p.interval <= 0 {
		return fmt.Errorf("poller %s: interval must be positive", p.name)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	wg := &sync.WaitGroup{}
	p.cancel = cancel
	p.wg = wg
	p.running = true

	wg.Add(1)
	go p.loop(loopCtx, wg)

	p.logger.DebugContext(ctx, "poller started", slog.Duration("interval", p.interval))
	return nil
}

// Stop cancels the loop and waits for in-flight ticks, or for ctx. The
// poller is stopped either way; when ctx ends first the remaining ticks
// finish on their own against a cancelled context and ctx.Err() is
// returned.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.cancel()
	wg := p.wg
	p.running = false
	p.cancel = nil
	p.wg = nil
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "poller stopped before ticks drained", slog.Any("error", ctx.Err()))
		return ctx.Err()
	}

	p.logger.DebugContext(ctx, "poller stopped")
	return nil
}

func (p *Poller) loop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fire(ctx, wg)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fire(ctx, wg)
		}
	}
}

// fire starts a tick without waiting for it
func (p *Poller) fire(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.runTick(ctx)
	}()
}

// runTick is the ignore-and-continue boundary: errors and panics from
// the tick are logged and counted, never propagated.
func (p *Poller) runTick(ctx context.Context) {
	outcome := metrics.OutcomeOK
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanic
			p.logger.ErrorContext(ctx, "poll tick panicked", slog.Any("panic", r))
		}
		metrics.RecordPollTick(p.name, outcome)
	}()

	if err := p.tick(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		outcome = metrics.OutcomeError
		p.logger.DebugContext(ctx, "poll tick failed, ignoring", slog.Any("error", err))
	}
}
