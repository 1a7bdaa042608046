package person

import (
	"slices"
	"sync"
)

// DefaultHistorySize bounds the search history
const DefaultHistorySize = 10

// History keeps recent search terms, oldest first. Adding a term already
// present moves it to the tail; when full the oldest term is dropped.
type History struct {
	mu    sync.Mutex
	limit int
	terms []string
}

// NewHistory returns an empty history holding at most limit terms
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit}
}

// Add records term as the most recent entry. Blank terms are ignored.
func (h *History) Add(term string) {
	if term == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if i := slices.Index(h.terms, term); i >= 0 {
		h.terms = slices.Delete(h.terms, i, i+1)
	}
	h.terms = append(h.terms, term)
	if over := len(h.terms) - h.limit; over > 0 {
		h.terms = slices.Delete(h.terms, 0, over)
	}
}

// Terms returns a copy, oldest first
func (h *History) Terms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.terms)
}

// Len returns the number of stored terms
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.terms)
}

// Clear drops every term
func (h *History) Clear() {
	h.mu.Lock()
	h.terms = nil
	h.mu.Unlock()
}
