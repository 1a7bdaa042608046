// Package state holds observable UI-facing state shared by the kiosk
// screens and the dashboard.
package state

import "sync"

// Status is the lifecycle of a piece of state.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot. Data is meaningful in Success, Message in Error.
type State[T any] struct {
	Status  Status
	Data    T
	Message string
}

func NewIdle[T any]() State[T] { return State[T]{Status: Idle} }

func NewLoading[T any]() State[T] { return State[T]{Status: Loading} }

func NewSuccess[T any](data T) State[T] { return State[T]{Status: Success, Data: data} }

func NewError[T any](msg string) State[T] { return State[T]{Status: Error, Message: msg} }

// Holder stores the latest State and pushes every change to subscribers.
// Concurrent writers race; the last Set wins.
type Holder[T any] struct {
	mu     sync.RWMutex
	cur    State[T]
	subs   map[int]func(State[T])
	nextID int
}

// NewHolder returns a holder starting at initial.
func NewHolder[T any](initial State[T]) *Holder[T] {
	return &Holder[T]{cur: initial, subs: make(map[int]func(State[T]))}
}

// Get returns the current snapshot.
func (h *Holder[T]) Get() State[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

// Set replaces the state and notifies subscribers synchronously, outside
// the lock.
func (h *Holder[T]) Set(s State[T]) {
	h.mu.Lock()
	h.cur = s
	fns := make([]func(State[T]), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Update applies fn to the current state under the lock and publishes the
// result. Use it for read-modify-write changes such as appending a page.
func (h *Holder[T]) Update(fn func(State[T]) State[T]) State[T] {
	h.mu.Lock()
	next := fn(h.cur)
	h.cur = next
	fns := make([]func(State[T]), 0, len(h.subs))
	for _, f := range h.subs {
		fns = append(fns, f)
	}
	h.mu.Unlock()

	for _, f := range fns {
		f(next)
	}
	return next
}

// Subscribe registers fn for future changes and returns a func that
// removes it.
func (h *Holder[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}
