package visit

import (
	"context"
	"log/slog"

	"github.com/martclinic/kiosk/internal/person"
	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
)

const unknownError = "Unknown error occurred"

// Board is the staff visit log. Every successful write reloads the list
// for the date the write touched.
type Board struct {
	repo      Repository
	registrar *Registrar
	now       types.Clock
	logger    *slog.Logger

	list     *state.Holder[[]Visit]
	selected *state.Holder[*Visit]
}

// NewBoard creates a board. registrar may be nil when the board is
// read-only.
func NewBoard(repo Repository, registrar *Registrar, now types.Clock, logger *slog.Logger) *Board {
	if now == nil {
		now = types.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		repo:      repo,
		registrar: registrar,
		now:       now,
		logger:    logger.With(slog.String("component", "visit.board")),
		list:      state.NewHolder(state.NewIdle[[]Visit]()),
		selected:  state.NewHolder(state.NewIdle[*Visit]()),
	}
}

// List is the observable visit list
func (b *Board) List() *state.Holder[[]Visit] { return b.list }

// Selected is the observable single visit loaded by LoadByCode
func (b *Board) Selected() *state.Holder[*Visit] { return b.selected }

func (b *Board) LoadAll(ctx context.Context) error {
	return b.load(ctx, func() ([]Visit, error) { return b.repo.All(ctx) })
}

// LoadByDate loads visits for a compact yyyyMMdd date
func (b *Board) LoadByDate(ctx context.Context, date string) error {
	return b.load(ctx, func() ([]Visit, error) { return b.repo.ByDate(ctx, date) })
}

// LoadToday loads visits for the current local date
func (b *Board) LoadToday(ctx context.Context) error {
	return b.LoadByDate(ctx, types.CompactDate(b.now()))
}

func (b *Board) load(ctx context.Context, fetch func() ([]Visit, error)) error {
	b.list.Set(state.NewLoading[[]Visit]())
	visits, err := fetch()
	if err != nil {
		b.logger.DebugContext(ctx, "load visits failed", slog.Any("error", err))
		b.list.Set(state.NewError[[]Visit](errors.MessageOr(err, unknownError)))
		return err
	}
	b.list.Set(state.NewSuccess(visits))
	return nil
}

func (b *Board) LoadByCode(ctx context.Context, pcode int) (*Visit, error) {
	b.selected.Set(state.NewLoading[*Visit]())
	v, err := b.repo.ByCode(ctx, pcode)
	if err != nil {
		b.selected.Set(state.NewError[*Visit](errors.MessageOr(err, unknownError)))
		return nil, err
	}
	b.selected.Set(state.NewSuccess(v))
	return v, nil
}

// Register submits a visit through the registrar and reloads today's
// list. Once the visit is created the call succeeds; a failed reload only
// leaves the list in Error.
func (b *Board) Register(ctx context.Context, p person.Person, phone PhoneEntry) (Visit, error) {
	if b.registrar == nil {
		return Visit{}, errors.Validation("Registration is not available", nil)
	}
	b.list.Set(state.NewLoading[[]Visit]())
	v, err := b.registrar.Register(ctx, p, phone)
	if err != nil {
		b.list.Set(state.NewError[[]Visit](errors.MessageOr(err, unknownError)))
		return Visit{}, err
	}
	b.reload(ctx, types.CompactDate(b.now()))
	return v, nil
}

// Update replaces the visit for pcode and reloads the date of v
func (b *Board) Update(ctx context.Context, pcode int, v Visit) error {
	b.list.Set(state.NewLoading[[]Visit]())
	if err := b.repo.Update(ctx, pcode, v); err != nil {
		b.list.Set(state.NewError[[]Visit](errors.MessageOr(err, unknownError)))
		return err
	}
	b.reload(ctx, visitDate(v.VISIDATE, b.now))
	return nil
}

// Delete removes the visit for pcode and reloads date
func (b *Board) Delete(ctx context.Context, pcode int, date string) error {
	b.list.Set(state.NewLoading[[]Visit]())
	if err := b.repo.Delete(ctx, pcode); err != nil {
		b.list.Set(state.NewError[[]Visit](errors.MessageOr(err, unknownError)))
		return err
	}
	b.reload(ctx, date)
	return nil
}

// reload refreshes the list after a write that already reached the server.
// A failure is logged and kept in the list state, not returned.
func (b *Board) reload(ctx context.Context, date string) {
	if err := b.LoadByDate(ctx, date); err != nil {
		b.logger.WarnContext(ctx, "reload after write failed",
			slog.String("date", date),
			slog.Any("error", err),
		)
	}
}

// ClearError drops the error message, keeping the board Idle
func (b *Board) ClearError() {
	b.list.Update(func(s state.State[[]Visit]) state.State[[]Visit] {
		if s.Status != state.Error {
			return s
		}
		return state.NewIdle[[]Visit]()
	})
	b.selected.Update(func(s state.State[*Visit]) state.State[*Visit] {
		if s.Status != state.Error {
			return s
		}
		return state.NewIdle[*Visit]()
	})
}

// visitDate turns a stored VISIDATE ("2024-03-05T09:30:00" or "20240305")
// into the compact date path segment. Unparseable values fall back to
// today.
func visitDate(visidate string, now types.Clock) string {
	digits := types.DigitsOnly(visidate)
	if len(digits) >= 8 {
		return digits[:8]
	}
	return types.CompactDate(now())
}
