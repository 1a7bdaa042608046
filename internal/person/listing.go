package person

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/state"
)

// Cursor is how far the listing has paged
type Cursor struct {
	CurrentPage int
	LastPage    bool
}

// Listing accumulates pages of persons for the staff list screen and
// applies create/update/delete results to the accumulated list.
//
// The list holder keeps the accumulated persons in Data even in Error so
// a failed page does not blank the screen.
type Listing struct {
	repo     Repository
	pageSize int
	logger   *slog.Logger

	mu      sync.Mutex
	persons []Person
	cursor  Cursor
	search  string

	loadingMore atomic.Bool

	list    *state.Holder[[]Person]
	current *state.Holder[*Person]
}

// NewListing creates a listing fetching pageSize persons per page
func NewListing(repo Repository, pageSize int, logger *slog.Logger) *Listing {
	if pageSize <= 0 {
		pageSize = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listing{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger.With(slog.String("component", "person.listing")),
		cursor:   Cursor{CurrentPage: 1},
		list:     state.NewHolder(state.NewIdle[[]Person]()),
		current:  state.NewHolder(state.NewIdle[*Person]()),
	}
}

// List is the observable accumulated list
func (l *Listing) List() *state.Holder[[]Person] { return l.list }

// Current is the observable single-record state (Get/Create/Update/Delete)
func (l *Listing) Current() *state.Holder[*Person] { return l.current }

// Cursor returns the paging position
func (l *Listing) Cursor() Cursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Persons returns a copy of the accumulated list
func (l *Listing) Persons() []Person {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.persons)
}

// LoadingMore reports whether a LoadMore is in flight
func (l *Listing) LoadingMore() bool { return l.loadingMore.Load() }

// SetSearch sets the server-side filter used by the next LoadFirstPage
func (l *Listing) SetSearch(term string) {
	l.mu.Lock()
	l.search = term
	l.mu.Unlock()
}

// LoadFirstPage fetches page 1 and replaces the accumulated list
func (l *Listing) LoadFirstPage(ctx context.Context) error {
	l.mu.Lock()
	search := l.search
	l.mu.Unlock()

	l.list.Set(l.snapshot(state.Loading, ""))

	page, err := l.repo.List(ctx, 1, l.pageSize, search)
	if err != nil {
		l.fail(ctx, err, "Failed to fetch persons")
		return err
	}

	l.mu.Lock()
	l.persons = slices.Clone(page.Data)
	l.cursor = Cursor{CurrentPage: 1, LastPage: len(page.Data) == 0}
	l.mu.Unlock()

	l.list.Set(l.snapshot(state.Success, ""))
	return nil
}

// LoadMore fetches the next page and appends it. It returns false without
// a request while another LoadMore is running or once the last page has
// been reached. An empty page marks the last page; the page number still
// advances.
func (l *Listing) LoadMore(ctx context.Context) (bool, error) {
	if !l.loadingMore.CompareAndSwap(false, true) {
		return false, nil
	}
	defer l.loadingMore.Store(false)

	l.mu.Lock()
	if l.cursor.LastPage {
		l.mu.Unlock()
		return false, nil
	}
	next := l.cursor.CurrentPage + 1
	search := l.search
	l.mu.Unlock()

	page, err := l.repo.List(ctx, next, l.pageSize, search)
	if err != nil {
		l.fail(ctx, err, "Failed to load more persons")
		return true, err
	}

	l.mu.Lock()
	l.persons = append(l.persons, page.Data...)
	l.cursor = Cursor{CurrentPage: next, LastPage: len(page.Data) == 0}
	l.mu.Unlock()

	l.list.Set(l.snapshot(state.Success, ""))
	return true, nil
}

// Get loads one person into Current
func (l *Listing) Get(ctx context.Context, pcode int) (*Person, error) {
	l.current.Set(state.NewLoading[*Person]())
	p, err := l.repo.Get(ctx, pcode)
	if err != nil {
		l.current.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to fetch person")))
		return nil, err
	}
	l.current.Set(state.NewSuccess(p))
	return p, nil
}

// Create posts p and appends the created record to the list
func (l *Listing) Create(ctx context.Context, p Person) (*Person, error) {
	l.current.Set(state.NewLoading[*Person]())
	created, err := l.repo.Create(ctx, p)
	if err != nil {
		l.current.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to create person")))
		return nil, err
	}

	l.mu.Lock()
	l.persons = append(l.persons, *created)
	l.mu.Unlock()

	l.list.Set(l.snapshot(state.Success, ""))
	l.current.Set(state.NewSuccess(created))
	return created, nil
}

// Update saves p under its PCODE and replaces matching list entries
func (l *Listing) Update(ctx context.Context, p Person) (*Person, error) {
	if !p.HasCode() {
		err := errors.Validation("Person code is required for update", map[string]string{"field": "PCODE"})
		l.current.Set(state.NewError[*Person](err.Message))
		return nil, err
	}

	l.current.Set(state.NewLoading[*Person]())
	updated, err := l.repo.Update(ctx, p.Code(), p)
	if err != nil {
		l.current.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to update person")))
		return nil, err
	}

	l.mu.Lock()
	for i := range l.persons {
		if l.persons[i].Code() == updated.Code() {
			l.persons[i] = *updated
		}
	}
	l.mu.Unlock()

	l.list.Set(l.snapshot(state.Success, ""))
	l.current.Set(state.NewSuccess(updated))
	return updated, nil
}

// Delete removes pcode on the server and from the list
func (l *Listing) Delete(ctx context.Context, pcode int) error {
	l.current.Set(state.NewLoading[*Person]())
	if err := l.repo.Delete(ctx, pcode); err != nil {
		l.current.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to delete person")))
		return err
	}

	l.mu.Lock()
	l.persons = slices.DeleteFunc(l.persons, func(p Person) bool { return p.Code() == pcode })
	l.mu.Unlock()

	l.list.Set(l.snapshot(state.Success, ""))
	l.current.Set(state.NewSuccess[*Person](nil))
	return nil
}

// ClearError returns both holders to Idle
func (l *Listing) ClearError() {
	l.current.Set(state.NewIdle[*Person]())
	if l.list.Get().Status == state.Error {
		l.list.Set(l.snapshot(state.Idle, ""))
	}
}

func (l *Listing) fail(ctx context.Context, err error, fallback string) {
	l.logger.WarnContext(ctx, fallback, slog.Any("error", err))
	l.list.Set(l.snapshot(state.Error, errors.MessageOr(err, fallback)))
}

func (l *Listing) snapshot(status state.Status, msg string) state.State[[]Person] {
	l.mu.Lock()
	defer l.mu.Unlock()
	data := slices.Clone(l.persons)
	if data == nil {
		data = []Person{}
	}
	return state.State[[]Person]{Status: status, Data: data, Message: msg}
}
