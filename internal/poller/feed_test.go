package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martclinic/kiosk/internal/shared/state"
)

func TestFeed_FetchesTodayAndKeepsLastGood(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC) }
	fail := false
	var dates []string
	f := NewFeed(func(_ context.Context, date string) ([]int, error) {
		dates = append(dates, date)
		if fail {
			return nil, errors.New("offline")
		}
		return []int{1, 2}, nil
	}, now)

	assert.False(t, f.Ready())
	require.NoError(t, f.Refresh(context.Background()))
	assert.True(t, f.Ready())
	assert.Equal(t, []int{1, 2}, f.Latest())

	fail = true
	require.Error(t, f.Refresh(context.Background()))
	assert.Equal(t, state.Success, f.Holder().Get().Status)
	assert.Equal(t, []int{1, 2}, f.Latest())

	assert.Equal(t, []string{"20240315", "20240315"}, dates)
}

func TestFeed_NilListBecomesEmpty(t *testing.T) {
	f := NewFeed(func(context.Context, string) ([]string, error) { return nil, nil }, nil)
	require.NoError(t, f.Refresh(context.Background()))
	assert.NotNil(t, f.Latest())
	assert.Empty(t, f.Latest())
}

func TestFeed_Poller(t *testing.T) {
	f := NewFeed(func(context.Context, string) ([]int, error) { return []int{7}, nil }, nil)
	p := f.Poller("visits", time.Hour, nil)
	assert.Equal(t, "visits", p.Name())

	require.NoError(t, p.Start(context.Background()))
	assert.Eventually(t, f.Ready, time.Second, time.Millisecond)
	require.NoError(t, p.Stop(context.Background()))
}
