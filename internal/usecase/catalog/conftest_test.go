package catalog

import (
	"context"
	"strconv"
	"testing"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
)

// mockReader implements RecordReader for tests.
type mockReader[T any] struct {
	index  string
	getFn  func(ctx context.Context, id string) (T, error)
	findFn func(ctx context.Context, expr filter.Expression, offset, limit int) ([]T, int, error)
}

func (m *mockReader[T]) Get(ctx context.Context, id string) (T, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	var zero T
	return zero, domain.NewRecordNotFound(m.index, id)
}

func (m *mockReader[T]) Find(ctx context.Context, expr filter.Expression, offset, limit int) ([]T, int, error) {
	if m.findFn != nil {
		return m.findFn(ctx, expr, offset, limit)
	}
	return nil, 0, nil
}

type mockCustomers struct {
	mockReader[entity.Customer]
	putFn   func(ctx context.Context, rec entity.Customer) (bool, error)
	termsFn func(ctx context.Context, field string, limit int) ([]domain.Term, error)
}

func (m *mockCustomers) Put(ctx context.Context, rec entity.Customer) (bool, error) {
	if m.putFn != nil {
		return m.putFn(ctx, rec)
	}
	return false, nil
}

func (m *mockCustomers) Terms(ctx context.Context, field string, limit int) ([]domain.Term, error) {
	if m.termsFn != nil {
		return m.termsFn(ctx, field, limit)
	}
	return nil, nil
}

type mockStatus struct {
	st  domain.ImportStatus
	err error
}

func (m *mockStatus) Last(_ context.Context) (domain.ImportStatus, error) {
	return m.st, m.err
}

type fixture struct {
	svc           *Service
	customers     *mockCustomers
	orders        *mockReader[entity.Order]
	products      *mockReader[entity.Product]
	orderProducts *mockReader[entity.OrderProduct]
	status        *mockStatus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		customers:     &mockCustomers{mockReader: mockReader[entity.Customer]{index: entity.CustomersIndex}},
		orders:        &mockReader[entity.Order]{index: entity.OrdersIndex},
		products:      &mockReader[entity.Product]{index: entity.ProductsIndex},
		orderProducts: &mockReader[entity.OrderProduct]{index: entity.OrderProductsIndex},
		status:        &mockStatus{err: domain.ErrNotImported},
	}
	f.svc = New(f.customers, f.orders, f.products, f.orderProducts, f.status)
	return f
}

// existing makes Get succeed for the listed ids, building records with mk.
func existing[T any](m *mockReader[T], mk func(id int64) T, ids ...int64) {
	known := make(map[string]T, len(ids))
	for _, id := range ids {
		known[strconv.FormatInt(id, 10)] = mk(id)
	}
	m.getFn = func(_ context.Context, id string) (T, error) {
		if rec, ok := known[id]; ok {
			return rec, nil
		}
		var zero T
		return zero, domain.NewRecordNotFound(m.index, id)
	}
}

// equalsOn asserts expr is a single numeric equality on attr and returns its value.
func equalsOn(t *testing.T, expr filter.Expression, attr string) float64 {
	t.Helper()
	must := expr.Must()
	if len(must) != 1 || must[0].Key() != attr || !must[0].IsRange() {
		t.Fatalf("expected equality on %s, got %+v", attr, must)
	}
	r := must[0].Range()
	if r.GTE() == nil || r.LTE() == nil || *r.GTE() != *r.LTE() {
		t.Fatalf("expected closed point range, got %+v", r)
	}
	return *r.GTE()
}
