package load

import (
	"context"
	"testing"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
)

type document interface {
	DocID() string
}

// memRepo is an in-memory RecordRepository.
type memRepo[T document] struct {
	name    string
	records map[string]T
	order   []string
	ensured int
	resets  int
	putErr  error
	getErr  error
}

func newMemRepo[T document](name string) *memRepo[T] {
	return &memRepo[T]{name: name, records: make(map[string]T)}
}

func (m *memRepo[T]) Ensure(_ context.Context) error {
	m.ensured++
	return nil
}

func (m *memRepo[T]) Reset(_ context.Context) error {
	m.resets++
	m.records = make(map[string]T)
	m.order = nil
	return nil
}

func (m *memRepo[T]) Put(_ context.Context, rec T) (bool, error) {
	if m.putErr != nil {
		return false, m.putErr
	}
	id := rec.DocID()
	_, exists := m.records[id]
	if !exists {
		m.order = append(m.order, id)
	}
	m.records[id] = rec
	return !exists, nil
}

func (m *memRepo[T]) Get(_ context.Context, id string) (T, error) {
	var zero T
	if m.getErr != nil {
		return zero, m.getErr
	}
	rec, ok := m.records[id]
	if !ok {
		return zero, domain.NewRecordNotFound(m.name, id)
	}
	return rec, nil
}

// mockStatus captures the status write.
type mockStatus struct {
	saved *domain.ImportStatus
	err   error
}

func (m *mockStatus) Save(_ context.Context, st domain.ImportStatus) error {
	if m.err != nil {
		return m.err
	}
	m.saved = &st
	return nil
}

type fixture struct {
	svc           *Service
	customers     *memRepo[entity.Customer]
	orders        *memRepo[entity.Order]
	products      *memRepo[entity.Product]
	orderProducts *memRepo[entity.OrderProduct]
	status        *mockStatus
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		customers:     newMemRepo[entity.Customer](entity.CustomersIndex),
		orders:        newMemRepo[entity.Order](entity.OrdersIndex),
		products:      newMemRepo[entity.Product](entity.ProductsIndex),
		orderProducts: newMemRepo[entity.OrderProduct](entity.OrderProductsIndex),
		status:        &mockStatus{},
	}
	f.svc = New(Repos{
		Customers:     f.customers,
		Orders:        f.orders,
		Products:      f.products,
		OrderProducts: f.orderProducts,
	}, f.status, opts)
	return f
}

const dataset = `<?xml version="1.0" standalone="yes"?>
<Database xmlns="http://tempuri.org/Database.xsd">
  <Customer><Id>1</Id><Firstname>Steve</Firstname><Lastname>Smith</Lastname></Customer>
  <Customer><Id>2</Id><Firstname>Joe</Firstname><Lastname>Miller</Lastname></Customer>
  <Customer><Id>3</Id><Firstname>steve</Firstname></Customer>
  <Order><Id>10</Id><OrderDate>2009-01-01T00:00:00</OrderDate><Customer>1</Customer></Order>
  <Order><Id>11</Id><OrderDate>2009-02-01T00:00:00</OrderDate><Customer>3</Customer></Order>
  <Product><Id>100</Id><Cost>9.5</Cost><Name>Shoe</Name></Product>
  <Product><Id>101</Id><Cost>12</Cost><Name>Hat</Name></Product>
  <OrderProduct><OrderId>11</OrderId><ProductId>100</ProductId></OrderProduct>
  <OrderProduct><OrderId>10</OrderId><ProductId>101</ProductId></OrderProduct>
  <OrderProduct><OrderId>10</OrderId><ProductId>100</ProductId></OrderProduct>
</Database>`
