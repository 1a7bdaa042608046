package person

import (
	"context"
	"sync/atomic"
)

// mockRepository lets each test script only the calls it cares about
type mockRepository struct {
	ListFunc              func(ctx context.Context, page, limit int, search string) (*Page, error)
	SearchByNameFunc      func(ctx context.Context, name string) ([]Person, error)
	SearchBySearchKeyFunc func(ctx context.Context, key string) ([]Person, error)
	GetFunc               func(ctx context.Context, pcode int) (*Person, error)
	CreateFunc            func(ctx context.Context, p Person) (*Person, error)
	UpdateFunc            func(ctx context.Context, pcode int, p Person) (*Person, error)
	DeleteFunc            func(ctx context.Context, pcode int) error

	calls atomic.Int32
}

func (m *mockRepository) List(ctx context.Context, page, limit int, search string) (*Page, error) {
	m.calls.Add(1)
	return m.ListFunc(ctx, page, limit, search)
}

func (m *mockRepository) SearchByName(ctx context.Context, name string) ([]Person, error) {
	m.calls.Add(1)
	return m.SearchByNameFunc(ctx, name)
}

func (m *mockRepository) SearchBySearchKey(ctx context.Context, key string) ([]Person, error) {
	m.calls.Add(1)
	return m.SearchBySearchKeyFunc(ctx, key)
}

func (m *mockRepository) Get(ctx context.Context, pcode int) (*Person, error) {
	m.calls.Add(1)
	return m.GetFunc(ctx, pcode)
}

func (m *mockRepository) Create(ctx context.Context, p Person) (*Person, error) {
	m.calls.Add(1)
	return m.CreateFunc(ctx, p)
}

func (m *mockRepository) Update(ctx context.Context, pcode int, p Person) (*Person, error) {
	m.calls.Add(1)
	return m.UpdateFunc(ctx, pcode, p)
}

func (m *mockRepository) Delete(ctx context.Context, pcode int) error {
	m.calls.Add(1)
	return m.DeleteFunc(ctx, pcode)
}

func named(pcode int, name string) Person {
	return Person{PCODE: &pcode, PNAME: &name}
}
