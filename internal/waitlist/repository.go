package waitlist

import (
	"context"
	"net/http"
	"strconv"

	"github.com/martclinic/kiosk/internal/apiclient"
	"github.com/martclinic/kiosk/internal/shared/errors"
)

// Repository is the remote wait queue
type Repository interface {
	All(ctx context.Context) ([]Entry, error)
	// ByDate lists the queue for a compact yyyyMMdd date. No records is
	// an empty list, not an error.
	ByDate(ctx context.Context, date string) ([]Entry, error)
	Get(ctx context.Context, key Key) (*Entry, error)
	Create(ctx context.Context, e Entry) error
	Update(ctx context.Context, key Key, e Entry) error
	Delete(ctx context.Context, key Key) error
}

// HTTPRepository implements Repository against the clinic API
type HTTPRepository struct {
	client *apiclient.Client
}

func NewHTTPRepository(client *apiclient.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func entryPath(key Key) string {
	return "mtswait/" + strconv.Itoa(key.PCODE) + "/" + key.VISIDATE
}

func (r *HTTPRepository) All(ctx context.Context) ([]Entry, error) {
	var out []Entry
	if err := r.client.Do(ctx, http.MethodGet, "mtswait", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.Decode(errors.ErrEmptyBody)
	}
	return out, nil
}

// ByDate treats 404 and a null body as an empty queue
func (r *HTTPRepository) ByDate(ctx context.Context, date string) ([]Entry, error) {
	var out []Entry
	err := r.client.Do(ctx, http.MethodGet, "mtswait/date/"+date, nil, nil, &out)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

func (r *HTTPRepository) Get(ctx context.Context, key Key) (*Entry, error) {
	var out *Entry
	if err := r.client.Do(ctx, http.MethodGet, entryPath(key), nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.NotFound("waitlist entry", key.String())
	}
	return out, nil
}

func (r *HTTPRepository) Create(ctx context.Context, e Entry) error {
	return r.client.Do(ctx, http.MethodPost, "mtswait", nil, e, nil)
}

func (r *HTTPRepository) Update(ctx context.Context, key Key, e Entry) error {
	return r.client.Do(ctx, http.MethodPut, entryPath(key), nil, e, nil)
}

func (r *HTTPRepository) Delete(ctx context.Context, key Key) error {
	return r.client.Do(ctx, http.MethodDelete, entryPath(key), nil, nil, nil)
}
