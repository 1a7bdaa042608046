package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martclinic/kiosk/internal/visit"
)

func fakeClinic(t *testing.T) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var posted []map[string]any
	r := chi.NewRouter()
	r.Get("/api/persons/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("searchId") == "900101-1" {
			_, _ = w.Write([]byte(`[{"PCODE": 7, "PNAME": "홍길동"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	r.Get("/api/persons/{pcode}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"PCODE": 7, "PNAME": "홍길동", "SEX": "1", "PBIRTH": "1990-01-01T00:00:00+09:00"}]`))
	})
	r.Post("/api/mtr", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		posted = append(posted, body)
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/api/mtr/date/{date}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &posted
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KIOSK_CONFIG", "")
	t.Setenv("KIOSK_API_URL", "")
	root := NewRoot(context.Background(), "abc123")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestRRN(t *testing.T) {
	out, err := run(t, "rrn", "900101-1234567")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "900101-1", got["searchId"])
	assert.Contains(t, got["birthDate"], "1990-01-01T00:00:00")
	assert.Equal(t, "9001011******", got["masked"])

	_, err = run(t, "rrn", "123")
	assert.Error(t, err)
}

func TestSearchByRRN(t *testing.T) {
	srv, _ := fakeClinic(t)
	out, err := run(t, "--api", srv.URL+"/api/", "search", "--rrn", "9001011234567")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "홍길동", got[0]["PNAME"])

	_, err = run(t, "--api", srv.URL+"/api/", "search")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	srv, posted := fakeClinic(t)
	out, err := run(t, "--api", srv.URL+"/api/", "register", "7", "--phone", "8259-1548")
	require.NoError(t, err)

	require.Len(t, *posted, 1)
	body := (*posted)[0]
	assert.Equal(t, "010-8259-1548", body["PHONENUM"])
	assert.Equal(t, "요양", body["GUBUN"])
	assert.Equal(t, " ", body["FIN"])

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	// today's list is empty on the fake server (404)
	assert.EqualValues(t, 0, got["waiting"])
}

func TestRegisterSucceedsWhenReloadFails(t *testing.T) {
	var posts int
	r := chi.NewRouter()
	r.Get("/api/persons/{pcode}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"PCODE": 7, "PNAME": "홍길동"}]`))
	})
	r.Post("/api/mtr", func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/api/mtr/date/{date}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	t.Setenv("KIOSK_CONFIG", "")
	t.Setenv("KIOSK_API_URL", "")
	root := NewRoot(context.Background(), "abc123")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--api", srv.URL + "/api/", "register", "7", "--phone", "8259-1548"})

	require.NoError(t, root.Execute())
	assert.Equal(t, 1, posts)
	assert.Contains(t, errOut.String(), "visit registered but the list was not reloaded")

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.NotNil(t, got["visit"])
	assert.NotContains(t, got, "waiting")
}

func TestRegisterRejectsBadPhone(t *testing.T) {
	srv, posted := fakeClinic(t)
	_, err := run(t, "--api", srv.URL+"/api/", "register", "7", "--phone", "8259")
	require.Error(t, err)
	assert.Empty(t, *posted)
}

func TestPhoneEntry(t *testing.T) {
	assert.Equal(t, []string{"8259", "1548"}, phoneEntry(visit.PhoneSplit, "8259-1548").Parts)
	assert.Equal(t, []string{"82591548"}, phoneEntry(visit.PhoneSingle, " 82591548 ").Parts)
}
