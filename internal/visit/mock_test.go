package visit

import (
	"context"
	"sync/atomic"
)

type mockRepository struct {
	AllFunc    func(ctx context.Context) ([]Visit, error)
	ByDateFunc func(ctx context.Context, date string) ([]Visit, error)
	ByCodeFunc func(ctx context.Context, pcode int) (*Visit, error)
	CreateFunc func(ctx context.Context, v Visit) error
	UpdateFunc func(ctx context.Context, pcode int, v Visit) error
	DeleteFunc func(ctx context.Context, pcode int) error

	calls atomic.Int32
}

func (m *mockRepository) All(ctx context.Context) ([]Visit, error) {
	m.calls.Add(1)
	return m.AllFunc(ctx)
}

func (m *mockRepository) ByDate(ctx context.Context, date string) ([]Visit, error) {
	m.calls.Add(1)
	return m.ByDateFunc(ctx, date)
}

func (m *mockRepository) ByCode(ctx context.Context, pcode int) (*Visit, error) {
	m.calls.Add(1)
	return m.ByCodeFunc(ctx, pcode)
}

func (m *mockRepository) Create(ctx context.Context, v Visit) error {
	m.calls.Add(1)
	return m.CreateFunc(ctx, v)
}

func (m *mockRepository) Update(ctx context.Context, pcode int, v Visit) error {
	m.calls.Add(1)
	return m.UpdateFunc(ctx, pcode, v)
}

func (m *mockRepository) Delete(ctx context.Context, pcode int) error {
	m.calls.Add(1)
	return m.DeleteFunc(ctx, pcode)
}
