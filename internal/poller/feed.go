package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
)

// FetchFunc lists records for a compact yyyyMMdd date
type FetchFunc[T any] func(ctx context.Context, date string) ([]T, error)

// Feed keeps the latest "today" list for a display. A failed refresh
// leaves the previous list in place.
type Feed[T any] struct {
	fetch  FetchFunc[T]
	now    types.Clock
	holder *state.Holder[[]T]
}

// NewFeed creates a feed that starts Idle
func NewFeed[T any](fetch FetchFunc[T], now types.Clock) *Feed[T] {
	if now == nil {
		now = types.SystemClock
	}
	return &Feed[T]{
		fetch:  fetch,
		now:    now,
		holder: state.NewHolder(state.NewIdle[[]T]()),
	}
}

// Holder is the observable list
func (f *Feed[T]) Holder() *state.Holder[[]T] { return f.holder }

// Latest returns the last successfully fetched list, or nil
func (f *Feed[T]) Latest() []T {
	return f.holder.Get().Data
}

// Ready reports whether at least one refresh has succeeded
func (f *Feed[T]) Ready() bool {
	return f.holder.Get().Status == state.Success
}

// Refresh fetches today's list. It has the TickFunc signature.
func (f *Feed[T]) Refresh(ctx context.Context) error {
	items, err := f.fetch(ctx, types.CompactDate(f.now()))
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	f.holder.Set(state.NewSuccess(items))
	return nil
}

// Poller wraps the feed in a poller
func (f *Feed[T]) Poller(name string, interval time.Duration, logger *slog.Logger) *Poller {
	return New(name, interval, f.Refresh, logger)
}
