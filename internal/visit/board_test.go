package visit

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
)

func TestBoard_RegisterReloadsToday(t *testing.T) {
	var dates []string
	repo := &mockRepository{
		CreateFunc: func(context.Context, Visit) error { return nil },
		ByDateFunc: func(_ context.Context, date string) ([]Visit, error) {
			dates = append(dates, date)
			return []Visit{{PCODE: 42}}, nil
		},
	}
	b := NewBoard(repo, newTestRegistrar(repo), fixedNow, nil)

	v, err := b.Register(context.Background(), patient(), SplitPhone("8259", "1548"))
	require.NoError(t, err)
	assert.Equal(t, 42, v.PCODE)
	assert.Equal(t, []string{"20240315"}, dates)

	got := b.List().Get()
	assert.Equal(t, state.Success, got.Status)
	assert.Len(t, got.Data, 1)
}

func TestBoard_RegisterFailure(t *testing.T) {
	repo := &mockRepository{
		CreateFunc: func(context.Context, Visit) error { return errors.New("") },
	}
	b := NewBoard(repo, newTestRegistrar(repo), fixedNow, nil)

	_, err := b.Register(context.Background(), patient(), SplitPhone("8259", "1548"))
	require.Error(t, err)
	assert.Equal(t, unknownError, b.List().Get().Message)
	assert.Equal(t, int32(1), repo.calls.Load())

	b.ClearError()
	assert.Equal(t, state.Idle, b.List().Get().Status)
}

func TestBoard_RegisterKeepsVisitWhenReloadFails(t *testing.T) {
	var created int
	repo := &mockRepository{
		CreateFunc: func(context.Context, Visit) error {
			created++
			return nil
		},
		ByDateFunc: func(context.Context, string) ([]Visit, error) { return nil, errors.New("blip") },
	}
	b := NewBoard(repo, newTestRegistrar(repo), fixedNow, nil)

	v, err := b.Register(context.Background(), patient(), SplitPhone("8259", "1548"))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 42, v.PCODE)
	assert.NotZero(t, v.Token())

	got := b.List().Get()
	assert.Equal(t, state.Error, got.Status)
	assert.Equal(t, "blip", got.Message)
}

func TestBoard_DeleteSucceedsWhenReloadFails(t *testing.T) {
	repo := &mockRepository{
		DeleteFunc: func(context.Context, int) error { return nil },
		ByDateFunc: func(context.Context, string) ([]Visit, error) { return nil, errors.New("blip") },
	}
	b := NewBoard(repo, nil, fixedNow, nil)

	require.NoError(t, b.Delete(context.Background(), 5, "20240101"))
	assert.Equal(t, state.Error, b.List().Get().Status)
}

func TestBoard_ReadOnlyRegister(t *testing.T) {
	b := NewBoard(&mockRepository{}, nil, fixedNow, nil)
	_, err := b.Register(context.Background(), patient(), SplitPhone("8259", "1548"))
	assert.Error(t, err)
}

func TestBoard_UpdateAndDeleteReloadTheirDate(t *testing.T) {
	var dates []string
	repo := &mockRepository{
		UpdateFunc: func(_ context.Context, pcode int, _ Visit) error {
			assert.Equal(t, 5, pcode)
			return nil
		},
		DeleteFunc: func(context.Context, int) error { return nil },
		ByDateFunc: func(_ context.Context, date string) ([]Visit, error) {
			dates = append(dates, date)
			return []Visit{}, nil
		},
	}
	b := NewBoard(repo, nil, fixedNow, nil)
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, 5, Visit{PCODE: 5, VISIDATE: "2024-02-01T10:00:00"}))
	require.NoError(t, b.Update(ctx, 5, Visit{PCODE: 5}))
	require.NoError(t, b.Delete(ctx, 5, "20240101"))

	assert.Equal(t, []string{"20240201", "20240315", "20240101"}, dates)
}

func TestBoard_Loads(t *testing.T) {
	repo := &mockRepository{
		AllFunc: func(context.Context) ([]Visit, error) { return []Visit{{PCODE: 1}, {PCODE: 2}}, nil },
		ByCodeFunc: func(_ context.Context, pcode int) (*Visit, error) {
			if pcode == 1 {
				return &Visit{PCODE: 1}, nil
			}
			return nil, errors.New("")
		},
	}
	b := NewBoard(repo, nil, fixedNow, nil)
	ctx := context.Background()

	require.NoError(t, b.LoadAll(ctx))
	assert.Len(t, b.List().Get().Data, 2)

	v, err := b.LoadByCode(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.PCODE)
	assert.Equal(t, state.Success, b.Selected().Get().Status)

	_, err = b.LoadByCode(ctx, 9)
	require.Error(t, err)
	assert.Equal(t, unknownError, b.Selected().Get().Message)
}

func TestVisitDate(t *testing.T) {
	assert.Equal(t, "20240305", visitDate("2024-03-05T09:30:00", fixedNow))
	assert.Equal(t, "20240305", visitDate("20240305", fixedNow))
	assert.Equal(t, types.CompactDate(fixedNow()), visitDate("", fixedNow))
}

func TestBoard_LoadByDateNotFoundIsEmptySuccess(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/mtr/date/{date}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	repo := newFakeAPI(t, r)
	b := NewBoard(repo, nil, fixedNow, nil)

	require.NoError(t, b.LoadByDate(context.Background(), "20240315"))
	got := b.List().Get()
	assert.Equal(t, state.Success, got.Status)
	assert.NotNil(t, got.Data)
	assert.Empty(t, got.Data)
}
