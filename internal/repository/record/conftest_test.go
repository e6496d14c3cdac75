package record

import (
	"context"
	"testing"

	"github.com/kailas-cloud/customerdata/internal/db"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn        func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn        func(ctx context.Context, key string, paths ...string) ([]byte, error)
	existsFn         func(ctx context.Context, key string) (bool, error)
	createIndexFn    func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn      func(ctx context.Context, name string, deleteDocs bool) error
	searchListFn     func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	searchCountFn    func(ctx context.Context, q *db.ListQuery) (int, error)
	aggregateTermsFn func(ctx context.Context, q *db.TermsQuery) ([]db.TermBucket, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, q *db.ListQuery) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, q)
	}
	return 0, nil
}

func (m *mockStore) AggregateTerms(ctx context.Context, q *db.TermsQuery) ([]db.TermBucket, error) {
	if m.aggregateTermsFn != nil {
		return m.aggregateTermsFn(ctx, q)
	}
	return nil, nil
}

const testPrefix = "cd:"

func newCustomerRepo(t *testing.T) (*Repo[entity.Customer], *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo, err := New[entity.Customer](ms, testPrefix, entity.CustomersIndex, entity.CustomerShape)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo, ms
}

func newOrderRepo(t *testing.T) (*Repo[entity.Order], *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo, err := New[entity.Order](ms, testPrefix, entity.OrdersIndex, entity.OrderShape)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo, ms
}
