package visit

import (
	"context"
	"net/http"
	"strconv"

	"github.com/martclinic/kiosk/internal/apiclient"
	"github.com/martclinic/kiosk/internal/shared/errors"
)

// Repository is the remote visit log
type Repository interface {
	All(ctx context.Context) ([]Visit, error)
	// ByDate lists visits for a compact yyyyMMdd date. No records is an
	// empty list, not an error.
	ByDate(ctx context.Context, date string) ([]Visit, error)
	ByCode(ctx context.Context, pcode int) (*Visit, error)
	Create(ctx context.Context, v Visit) error
	Update(ctx context.Context, pcode int, v Visit) error
	Delete(ctx context.Context, pcode int) error
}

// HTTPRepository implements Repository against the clinic API
type HTTPRepository struct {
	client *apiclient.Client
}

// NewHTTPRepository creates a visit repository on top of client
func NewHTTPRepository(client *apiclient.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func (r *HTTPRepository) All(ctx context.Context) ([]Visit, error) {
	var out []Visit
	if err := r.client.Do(ctx, http.MethodGet, "mtr", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.Decode(errors.ErrEmptyBody)
	}
	return out, nil
}

// ByDate treats 404 and a null body as "no visits that day"
func (r *HTTPRepository) ByDate(ctx context.Context, date string) ([]Visit, error) {
	var out []Visit
	err := r.client.Do(ctx, http.MethodGet, "mtr/date/"+date, nil, nil, &out)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if out == nil {
		out = []Visit{}
	}
	return out, nil
}

func (r *HTTPRepository) ByCode(ctx context.Context, pcode int) (*Visit, error) {
	var out *Visit
	if err := r.client.Do(ctx, http.MethodGet, "mtr/"+strconv.Itoa(pcode), nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.NotFound("visit", strconv.Itoa(pcode))
	}
	return out, nil
}

func (r *HTTPRepository) Create(ctx context.Context, v Visit) error {
	return r.client.Do(ctx, http.MethodPost, "mtr", nil, v, nil)
}

func (r *HTTPRepository) Update(ctx context.Context, pcode int, v Visit) error {
	return r.client.Do(ctx, http.MethodPut, "mtr/"+strconv.Itoa(pcode), nil, v, nil)
}

func (r *HTTPRepository) Delete(ctx context.Context, pcode int) error {
	return r.client.Do(ctx, http.MethodDelete, "mtr/"+strconv.Itoa(pcode), nil, nil, nil)
}
