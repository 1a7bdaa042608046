package person

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/metrics"
	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
)

// MaxSuggestions bounds the name autocomplete list
const MaxSuggestions = 15

// Search modes, used as metric labels
const (
	ModeCode      = "code"
	ModeSearchKey = "search_key"
	ModeName      = "name"
)

// Search drives the patient self-lookup screens. Results start Idle and
// move through Loading to Success or Error on every lookup. Overlapping
// lookups are not serialised: whichever finishes last owns the state.
type Search struct {
	repo        Repository
	results     *state.Holder[[]Person]
	suggestions *state.Holder[[]string]
	history     *History
	logger      *slog.Logger
}

// NewSearch creates a search orchestrator over repo
func NewSearch(repo Repository, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{
		repo:        repo,
		results:     state.NewHolder(state.NewIdle[[]Person]()),
		suggestions: state.NewHolder(state.NewSuccess([]string{})),
		history:     NewHistory(DefaultHistorySize),
		logger:      logger.With(slog.String("component", "person.search")),
	}
}

// Results is the observable search result state
func (s *Search) Results() *state.Holder[[]Person] { return s.results }

// Suggestions is the observable autocomplete list
func (s *Search) Suggestions() *state.Holder[[]string] { return s.suggestions }

// History returns the recent successful search terms
func (s *Search) History() *History { return s.history }

// ByCode looks a patient up by PCODE. pcode <= 0 yields an empty result
// without a request.
func (s *Search) ByCode(ctx context.Context, pcode int) state.State[[]Person] {
	if pcode <= 0 {
		return s.clear()
	}
	return s.run(ctx, ModeCode, strconv.Itoa(pcode), "Failed to search by PCODE", func(ctx context.Context) ([]Person, error) {
		p, err := s.repo.Get(ctx, pcode)
		if err != nil {
			return nil, err
		}
		return []Person{*p}, nil
	})
}

// BySearchKey looks patients up by their "YYMMDD-S" key
func (s *Search) BySearchKey(ctx context.Context, key string) state.State[[]Person] {
	if strings.TrimSpace(key) == "" {
		return s.clear()
	}
	return s.run(ctx, ModeSearchKey, key, "Failed to search by Search ID", func(ctx context.Context) ([]Person, error) {
		return s.repo.SearchBySearchKey(ctx, key)
	})
}

// ByRRN derives the search key from a full 13 digit RRN and searches by
// it. A malformed RRN yields an empty result without a request.
func (s *Search) ByRRN(ctx context.Context, rrn string) state.State[[]Person] {
	key, ok := types.DeriveSearchKey(rrn)
	if !ok {
		s.logger.DebugContext(ctx, "rrn rejected", slog.String("rrn", types.RRN(rrn).Masked()))
		return s.clear()
	}
	return s.BySearchKey(ctx, key)
}

// ByName looks patients up by name; matching is the server's business
func (s *Search) ByName(ctx context.Context, name string) state.State[[]Person] {
	if strings.TrimSpace(name) == "" {
		return s.clear()
	}
	return s.run(ctx, ModeName, name, "Failed to search by name", func(ctx context.Context) ([]Person, error) {
		return s.repo.SearchByName(ctx, name)
	})
}

// Suggest refreshes the autocomplete list with up to MaxSuggestions
// distinct names matching query. Failures leave an empty list.
func (s *Search) Suggest(ctx context.Context, query string) []string {
	if strings.TrimSpace(query) == "" {
		s.suggestions.Set(state.NewSuccess([]string{}))
		return []string{}
	}

	persons, err := s.repo.SearchByName(ctx, query)
	if err != nil {
		s.logger.DebugContext(ctx, "suggestions unavailable", slog.Any("error", err))
		s.suggestions.Set(state.NewSuccess([]string{}))
		return []string{}
	}

	seen := make(map[string]struct{}, len(persons))
	names := make([]string, 0, MaxSuggestions)
	for _, p := range persons {
		if p.PNAME == nil {
			continue
		}
		if _, dup := seen[*p.PNAME]; dup {
			continue
		}
		seen[*p.PNAME] = struct{}{}
		names = append(names, *p.PNAME)
		if len(names) == MaxSuggestions {
			break
		}
	}
	s.suggestions.Set(state.NewSuccess(names))
	return names
}

// Reset shows an empty result. This is Success, not Idle.
func (s *Search) Reset() {
	s.clear()
}

// ClearError returns to Idle, e.g. after the error banner is dismissed
func (s *Search) ClearError() {
	s.results.Set(state.NewIdle[[]Person]())
}

func (s *Search) clear() state.State[[]Person] {
	empty := state.NewSuccess([]Person{})
	s.results.Set(empty)
	s.suggestions.Set(state.NewSuccess([]string{}))
	return empty
}

func (s *Search) run(ctx context.Context, mode, term, fallback string, fetch func(context.Context) ([]Person, error)) state.State[[]Person] {
	s.results.Set(state.NewLoading[[]Person]())

	persons, err := fetch(ctx)
	if err != nil {
		metrics.RecordSearch(mode, metrics.OutcomeError)
		s.logger.WarnContext(ctx, "search failed", slog.String("mode", mode), slog.Any("error", err))
		st := state.NewError[[]Person](errors.MessageOr(err, fallback))
		s.results.Set(st)
		return st
	}
	if persons == nil {
		persons = []Person{}
	}

	metrics.RecordSearch(mode, metrics.OutcomeOK)
	s.history.Add(term)
	st := state.NewSuccess(persons)
	s.results.Set(st)
	return st
}
