package waitlist

import (
	"context"
	"log/slog"
	"strings"

	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
)

const unknownError = "Unknown error occurred"

// Board is the staff wait queue screen. Writes reload the queue of the
// date they touched.
type Board struct {
	repo   Repository
	logger *slog.Logger

	list     *state.Holder[[]Entry]
	selected *state.Holder[*Entry]
}

func NewBoard(repo Repository, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		repo:     repo,
		logger:   logger.With(slog.String("component", "waitlist.board")),
		list:     state.NewHolder(state.NewIdle[[]Entry]()),
		selected: state.NewHolder(state.NewIdle[*Entry]()),
	}
}

// List is the observable queue
func (b *Board) List() *state.Holder[[]Entry] { return b.list }

// Selected is the observable entry loaded by LoadByKey
func (b *Board) Selected() *state.Holder[*Entry] { return b.selected }

func (b *Board) LoadByDate(ctx context.Context, date string) error {
	b.list.Set(state.NewLoading[[]Entry]())
	entries, err := b.repo.ByDate(ctx, date)
	if err != nil {
		b.logger.DebugContext(ctx, "load waitlist failed", slog.String("date", date), slog.Any("error", err))
		b.list.Set(state.NewError[[]Entry](errors.MessageOr(err, unknownError)))
		return err
	}
	b.list.Set(state.NewSuccess(entries))
	return nil
}

func (b *Board) LoadByKey(ctx context.Context, key Key) (*Entry, error) {
	b.selected.Set(state.NewLoading[*Entry]())
	e, err := b.repo.Get(ctx, key)
	if err != nil {
		b.selected.Set(state.NewError[*Entry](errors.MessageOr(err, unknownError)))
		return nil, err
	}
	b.selected.Set(state.NewSuccess(e))
	return e, nil
}

func (b *Board) Create(ctx context.Context, e Entry) error {
	return b.write(ctx, e.VISIDATE, func() error { return b.repo.Create(ctx, e) })
}

// Add queues a person by hand from the staff screen. The code must be
// positive and the display name non-blank.
func (b *Board) Add(ctx context.Context, pcode int, date, displayName, resid1, resid2 string) error {
	if pcode <= 0 {
		err := errors.Validation("Person code is required", map[string]string{"field": "PCODE"})
		b.list.Set(state.NewError[[]Entry](err.Message))
		return err
	}
	if strings.TrimSpace(displayName) == "" {
		err := errors.Validation("Display name is required", map[string]string{"field": "DISPLAYNAME"})
		b.list.Set(state.NewError[[]Entry](err.Message))
		return err
	}
	return b.Create(ctx, Entry{
		PCODE:       pcode,
		VISIDATE:    date,
		DISPLAYNAME: types.Ptr(displayName),
		RESID1:      resid1,
		RESID2:      resid2,
	})
}

func (b *Board) Update(ctx context.Context, key Key, e Entry) error {
	return b.write(ctx, key.VISIDATE, func() error { return b.repo.Update(ctx, key, e) })
}

func (b *Board) Delete(ctx context.Context, key Key) error {
	return b.write(ctx, key.VISIDATE, func() error { return b.repo.Delete(ctx, key) })
}

func (b *Board) write(ctx context.Context, date string, op func() error) error {
	b.list.Set(state.NewLoading[[]Entry]())
	if err := op(); err != nil {
		b.logger.WarnContext(ctx, "waitlist write failed", slog.String("date", date), slog.Any("error", err))
		b.list.Set(state.NewError[[]Entry](errors.MessageOr(err, unknownError)))
		return err
	}
	if err := b.LoadByDate(ctx, date); err != nil {
		b.logger.WarnContext(ctx, "reload after waitlist write failed", slog.String("date", date), slog.Any("error", err))
	}
	return nil
}

// ClearError returns an errored list or selection to Idle
func (b *Board) ClearError() {
	b.list.Update(func(s state.State[[]Entry]) state.State[[]Entry] {
		if s.Status != state.Error {
			return s
		}
		return state.NewIdle[[]Entry]()
	})
	b.selected.Update(func(s state.State[*Entry]) state.State[*Entry] {
		if s.Status != state.Error {
			return s
		}
		return state.NewIdle[*Entry]()
	})
}
