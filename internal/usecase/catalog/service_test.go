package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
)

func customer(id int64) entity.Customer { return entity.Customer{ID: id, Firstname: "Steve"} }
func order(id int64) entity.Order       { return entity.Order{ID: id} }
func product(id int64) entity.Product   { return entity.Product{ID: id} }

// --- Lookups ---

func TestCustomerByID(t *testing.T) {
	f := newFixture(t)
	existing(&f.customers.mockReader, customer, 1)

	c, err := f.svc.CustomerByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 1 {
		t.Errorf("got %+v", c)
	}

	if _, err := f.svc.CustomerByID(context.Background(), 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderAndProductByID_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.OrderByID(context.Background(), 9); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("order: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.ProductByID(context.Background(), 9); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("product: expected ErrNotFound, got %v", err)
	}
}

// --- Relations ---

func TestOrdersByCustomer(t *testing.T) {
	f := newFixture(t)
	existing(&f.customers.mockReader, customer, 3)
	f.orders.findFn = func(_ context.Context, expr filter.Expression, offset, limit int) ([]entity.Order, int, error) {
		if v := equalsOn(t, expr, "customer"); v != 3 {
			t.Errorf("customer = %v, want 3", v)
		}
		if offset != 0 || limit != 20 {
			t.Errorf("offset=%d limit=%d", offset, limit)
		}
		return []entity.Order{{ID: 1, Customer: 3}, {ID: 4, Customer: 3}}, 2, nil
	}

	orders, err := f.svc.OrdersByCustomer(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("got %d orders", len(orders))
	}
}

func TestOrdersByCustomer_UnknownCustomer(t *testing.T) {
	f := newFixture(t)
	f.orders.findFn = func(_ context.Context, _ filter.Expression, _, _ int) ([]entity.Order, int, error) {
		t.Fatal("orders must not be searched for an unknown customer")
		return nil, 0, nil
	}

	if _, err := f.svc.OrdersByCustomer(context.Background(), 3, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderProductsByOrderAndProduct(t *testing.T) {
	f := newFixture(t)
	existing(f.orders, order, 10)
	existing(f.products, product, 100)

	var attrs []string
	f.orderProducts.findFn = func(
		_ context.Context, expr filter.Expression, _, _ int,
	) ([]entity.OrderProduct, int, error) {
		attr := expr.Must()[0].Key()
		attrs = append(attrs, attr)
		v := equalsOn(t, expr, attr)
		if attr == "orderId" {
			return []entity.OrderProduct{{ID: 2, OrderID: int64(v), ProductID: 101}}, 1, nil
		}
		return []entity.OrderProduct{{ID: 1, OrderID: 11, ProductID: int64(v)}}, 1, nil
	}

	byOrder, err := f.svc.OrderProductsByOrder(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("by order: %v", err)
	}
	byProduct, err := f.svc.OrderProductsByProduct(context.Background(), 100, 5)
	if err != nil {
		t.Fatalf("by product: %v", err)
	}

	if len(attrs) != 2 || attrs[0] != "orderId" || attrs[1] != "productId" {
		t.Errorf("queried attrs = %v", attrs)
	}
	if byOrder[0].OrderID != 10 || byProduct[0].ProductID != 100 {
		t.Errorf("byOrder=%+v byProduct=%+v", byOrder, byProduct)
	}
}

func TestOrderProductsByProduct_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.OrderProductsByProduct(context.Background(), 5, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// --- Search ---

func TestCustomersByFirstname(t *testing.T) {
	f := newFixture(t)
	f.customers.findFn = func(
		_ context.Context, expr filter.Expression, _, limit int,
	) ([]entity.Customer, int, error) {
		must := expr.Must()
		if len(must) != 1 || must[0].Key() != "firstname" || must[0].Match() != "steve" {
			t.Errorf("unexpected filter: %+v", must)
		}
		if limit != 2 {
			t.Errorf("limit = %d, want 2", limit)
		}
		return []entity.Customer{customer(1), customer(4)}, 3, nil
	}

	hits, err := f.svc.CustomersByFirstname(context.Background(), "  steve ", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Total != 3 || len(hits.Customers) != 2 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestCustomersByFirstname_Empty(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.CustomersByFirstname(context.Background(), " ", 0); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestPageSize(t *testing.T) {
	f := newFixture(t)
	f.svc.WithPagination(5, 50)

	tests := []struct{ in, want int }{
		{0, 5},
		{-1, 5},
		{7, 7},
		{500, 50},
	}
	for _, tt := range tests {
		if got := f.svc.pageSize(tt.in); got != tt.want {
			t.Errorf("pageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// --- Aggregation ---

func TestFirstnameTerms_FoldsCase(t *testing.T) {
	f := newFixture(t)
	f.customers.termsFn = func(_ context.Context, field string, _ int) ([]domain.Term, error) {
		if field != "firstname" {
			t.Errorf("field = %q", field)
		}
		return []domain.Term{
			{Value: "Steve", Count: 2},
			{Value: "joe", Count: 1},
			{Value: "steve", Count: 1},
			{Value: "Yuliana", Count: 1},
			{Value: "mike", Count: 1},
		}, nil
	}

	terms, err := f.svc.FirstnameTerms(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Term{{Value: "steve", Count: 3}, {Value: "joe", Count: 1}, {Value: "mike", Count: 1}}
	if len(terms) != len(want) {
		t.Fatalf("terms = %+v", terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %+v, want %+v", i, terms[i], want[i])
		}
	}
}

func TestFirstnameTerms_Error(t *testing.T) {
	f := newFixture(t)
	storeErr := errors.New("timeout")
	f.customers.termsFn = func(_ context.Context, _ string, _ int) ([]domain.Term, error) { return nil, storeErr }

	if _, err := f.svc.FirstnameTerms(context.Background(), 0); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// --- Update ---

func TestUpdateCustomerLastname(t *testing.T) {
	f := newFixture(t)
	existing(&f.customers.mockReader, customer, 1)
	var stored entity.Customer
	f.customers.putFn = func(_ context.Context, rec entity.Customer) (bool, error) {
		stored = rec
		return false, nil
	}

	c, err := f.svc.UpdateCustomerLastname(context.Background(), 1, " Jobs ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lastname != "Jobs" || stored.Lastname != "Jobs" || stored.Firstname != "Steve" {
		t.Errorf("returned=%+v stored=%+v", c, stored)
	}
}

func TestUpdateCustomerLastname_Errors(t *testing.T) {
	f := newFixture(t)
	f.customers.putFn = func(_ context.Context, _ entity.Customer) (bool, error) {
		t.Fatal("nothing must be written")
		return false, nil
	}

	if _, err := f.svc.UpdateCustomerLastname(context.Background(), 1, ""); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("empty lastname: expected ErrInvalidQuery, got %v", err)
	}
	if _, err := f.svc.UpdateCustomerLastname(context.Background(), 1, "Jobs"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown customer: expected ErrNotFound, got %v", err)
	}
}

// --- Status ---

func TestStatus(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Status(context.Background()); !errors.Is(err, domain.ErrNotImported) {
		t.Fatalf("expected ErrNotImported, got %v", err)
	}

	f.status.err = nil
	f.status.st = domain.ImportStatus{RunID: "r1"}
	st, err := f.svc.Status(context.Background())
	if err != nil || st.RunID != "r1" {
		t.Fatalf("status=%+v err=%v", st, err)
	}
}
