package person

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/state"
)

// Editor backs the create and edit person screens: it owns a Form and
// submits it.
type Editor struct {
	repo   Repository
	loc    *time.Location
	form   *Form
	state  *state.Holder[*Person]
	logger *slog.Logger
}

// NewEditor starts with an empty form
func NewEditor(repo Repository, loc *time.Location, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		repo:   repo,
		loc:    loc,
		form:   NewForm(loc),
		state:  state.NewHolder(state.NewIdle[*Person]()),
		logger: logger.With(slog.String("component", "person.editor")),
	}
}

// Form returns the draft being edited
func (e *Editor) Form() *Form { return e.form }

// State is the observable submit state
func (e *Editor) State() *state.Holder[*Person] { return e.state }

// Load replaces the form with the stored record for pcode
func (e *Editor) Load(ctx context.Context, pcode int) (*Person, error) {
	e.state.Set(state.NewLoading[*Person]())
	p, err := e.repo.Get(ctx, pcode)
	if err != nil {
		e.state.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to fetch person")))
		return nil, err
	}
	e.form = FormFrom(*p, e.loc)
	e.state.Set(state.NewSuccess(p))
	return p, nil
}

// Create posts the draft as a new person. PNAME is required.
func (e *Editor) Create(ctx context.Context) (*Person, error) {
	draft := e.form.Person()
	if strings.TrimSpace(draft.Name()) == "" {
		err := errors.Validation("Name is required", map[string]string{"field": "PNAME"})
		e.state.Set(state.NewError[*Person](err.Message))
		return nil, err
	}

	e.state.Set(state.NewLoading[*Person]())
	created, err := e.repo.Create(ctx, draft)
	if err != nil {
		e.logger.WarnContext(ctx, "create person failed", slog.Any("error", err))
		e.state.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to create person")))
		return nil, err
	}
	e.state.Set(state.NewSuccess(created))
	return created, nil
}

// Save updates the stored record with the draft. The draft must carry a
// PCODE.
func (e *Editor) Save(ctx context.Context) (*Person, error) {
	draft := e.form.Person()
	if !draft.HasCode() {
		err := errors.Validation("Person code is required for update", map[string]string{"field": "PCODE"})
		e.state.Set(state.NewError[*Person](err.Message))
		return nil, err
	}

	e.state.Set(state.NewLoading[*Person]())
	updated, err := e.repo.Update(ctx, draft.Code(), draft)
	if err != nil {
		e.logger.WarnContext(ctx, "update person failed", slog.Int("pcode", draft.Code()), slog.Any("error", err))
		e.state.Set(state.NewError[*Person](errors.MessageOr(err, "Failed to update person")))
		return nil, err
	}
	e.form = FormFrom(*updated, e.loc)
	e.state.Set(state.NewSuccess(updated))
	return updated, nil
}

// ClearError returns to Idle
func (e *Editor) ClearError() {
	e.state.Set(state.NewIdle[*Person]())
}
