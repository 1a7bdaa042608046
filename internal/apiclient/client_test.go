package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/martclinic/kiosk/internal/shared/errors"
)

type echo struct {
	Name string `json:"PNAME"`
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RetryDelay = time.Millisecond
	cfg.ConnectTimeout = time.Second
	cfg.RequestTimeout = 2 * time.Second
	cfg.RequestsPerSecond = 0
	c, err := New(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestDo_GetDecodesAndSendsHeaders(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/persons/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "홍길동", r.URL.Query().Get("pname"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode([]echo{{Name: "홍길동"}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	var out []echo
	err := c.Do(context.Background(), http.MethodGet, "persons/search", url.Values{"pname": {"홍길동"}}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, []echo{{Name: "홍길동"}}, out)
	assert.Equal(t, srv.URL+"/api/", c.BaseURL())
}

func TestDo_PostSendsBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/persons", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in echo
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]echo{in})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var out []echo
	err := newTestClient(t, srv.URL+"/api/").Do(context.Background(), http.MethodPost, "persons", nil, echo{Name: "kim"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "kim", out[0].Name)
}

func TestDo_NotFoundIsClassified(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	err := newTestClient(t, srv.URL).Do(context.Background(), http.MethodGet, "mtr/date/20240101", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestDo_ServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Do(context.Background(), http.MethodGet, "persons", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "API call failed: 500 - Internal Server Error", apperrors.MessageOr(err, ""))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_EmptyAndNullBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/null" {
			_, _ = w.Write([]byte("null"))
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	out := []echo{{Name: "keep"}}
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "null", nil, nil, &out))
	assert.Equal(t, "keep", out[0].Name)
	require.NoError(t, c.Do(context.Background(), http.MethodDelete, "empty", nil, nil, &out))
}

func TestDo_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	var out []echo
	err := newTestClient(t, srv.URL).Do(context.Background(), http.MethodGet, "persons", nil, nil, &out)
	assert.ErrorIs(t, err, apperrors.ErrDecode)
}

// dropConnections closes every connection without answering.
func dropConnections(calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			return
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			_ = conn.Close()
		}
	})
}

func TestDo_RetriesConnectionFailuresOnGet(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(dropConnections(&calls))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Do(context.Background(), http.MethodGet, "persons", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestDo_NeverRetriesPost(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(dropConnections(&calls))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Do(context.Background(), http.MethodPost, "mtr", nil, echo{Name: "x"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_RequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RequestTimeout = 50 * time.Millisecond
	cfg.RetryAttempts = 0
	c, err := New(cfg, nil)
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "persons", nil, nil, nil)
	assert.True(t, apperrors.IsTransport(err))
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost"}, nil)
	assert.Error(t, err)
}
