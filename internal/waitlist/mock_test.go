package waitlist

import (
	"context"
	"sync/atomic"
)

type mockRepository struct {
	AllFunc    func(ctx context.Context) ([]Entry, error)
	ByDateFunc func(ctx context.Context, date string) ([]Entry, error)
	GetFunc    func(ctx context.Context, key Key) (*Entry, error)
	CreateFunc func(ctx context.Context, e Entry) error
	UpdateFunc func(ctx context.Context, key Key, e Entry) error
	DeleteFunc func(ctx context.Context, key Key) error

	calls atomic.Int32
}

func (m *mockRepository) All(ctx context.Context) ([]Entry, error) {
	m.calls.Add(1)
	return m.AllFunc(ctx)
}

func (m *mockRepository) ByDate(ctx context.Context, date string) ([]Entry, error) {
	m.calls.Add(1)
	return m.ByDateFunc(ctx, date)
}

func (m *mockRepository) Get(ctx context.Context, key Key) (*Entry, error) {
	m.calls.Add(1)
	return m.GetFunc(ctx, key)
}

func (m *mockRepository) Create(ctx context.Context, e Entry) error {
	m.calls.Add(1)
	return m.CreateFunc(ctx, e)
}

func (m *mockRepository) Update(ctx context.Context, key Key, e Entry) error {
	m.calls.Add(1)
	return m.UpdateFunc(ctx, key, e)
}

func (m *mockRepository) Delete(ctx context.Context, key Key) error {
	m.calls.Add(1)
	return m.DeleteFunc(ctx, key)
}
