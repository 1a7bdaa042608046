package person

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/martclinic/kiosk/internal/apiclient"
	"github.com/martclinic/kiosk/internal/shared/errors"
)

// Repository is the remote person store
type Repository interface {
	List(ctx context.Context, page, limit int, search string) (*Page, error)
	SearchByName(ctx context.Context, name string) ([]Person, error)
	SearchBySearchKey(ctx context.Context, key string) ([]Person, error)
	Get(ctx context.Context, pcode int) (*Person, error)
	Create(ctx context.Context, p Person) (*Person, error)
	Update(ctx context.Context, pcode int, p Person) (*Person, error)
	Delete(ctx context.Context, pcode int) error
}

// HTTPRepository implements Repository against the clinic API
type HTTPRepository struct {
	client *apiclient.Client
}

// NewHTTPRepository creates a person repository on top of client
func NewHTTPRepository(client *apiclient.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

// List fetches one page of persons. search is sent only when non-blank.
func (r *HTTPRepository) List(ctx context.Context, page, limit int, search string) (*Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if strings.TrimSpace(search) != "" {
		q.Set("search", search)
	}

	var out Page
	if err := r.client.Do(ctx, http.MethodGet, "persons", q, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Person{}
	}
	return &out, nil
}

// SearchByName returns persons whose name matches. A blank name returns an
// empty list without calling the server.
func (r *HTTPRepository) SearchByName(ctx context.Context, name string) ([]Person, error) {
	if strings.TrimSpace(name) == "" {
		return []Person{}, nil
	}
	return r.search(ctx, url.Values{"pname": {name}})
}

// SearchBySearchKey returns persons with the given "YYMMDD-S" key. A blank
// key returns an empty list without calling the server.
func (r *HTTPRepository) SearchBySearchKey(ctx context.Context, key string) ([]Person, error) {
	if strings.TrimSpace(key) == "" {
		return []Person{}, nil
	}
	return r.search(ctx, url.Values{"searchId": {key}})
}

func (r *HTTPRepository) search(ctx context.Context, q url.Values) ([]Person, error) {
	var out []Person
	if err := r.client.Do(ctx, http.MethodGet, "persons/search", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Person{}
	}
	return out, nil
}

// Get returns the first record the server lists for pcode
func (r *HTTPRepository) Get(ctx context.Context, pcode int) (*Person, error) {
	var out []Person
	if err := r.client.Do(ctx, http.MethodGet, "persons/"+strconv.Itoa(pcode), nil, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.NotFound("person", strconv.Itoa(pcode))
	}
	return &out[0], nil
}

// Create posts p and returns the first record of the server's reply
func (r *HTTPRepository) Create(ctx context.Context, p Person) (*Person, error) {
	var out []Person
	if err := r.client.Do(ctx, http.MethodPost, "persons", nil, p, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Decode(errors.ErrEmptyBody)
	}
	return &out[0], nil
}

// Update replaces the record at pcode
func (r *HTTPRepository) Update(ctx context.Context, pcode int, p Person) (*Person, error) {
	var out *Person
	if err := r.client.Do(ctx, http.MethodPut, "persons/"+strconv.Itoa(pcode), nil, p, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.Decode(errors.ErrEmptyBody)
	}
	return out, nil
}

// Delete removes the record at pcode
func (r *HTTPRepository) Delete(ctx context.Context, pcode int) error {
	return r.client.Do(ctx, http.MethodDelete, "persons/"+strconv.Itoa(pcode), nil, nil, nil)
}
