package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
	cataloguc "github.com/kailas-cloud/customerdata/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/customerdata/internal/usecase/health"
)

// --- Fakes ---

type fakeReader[T interface{ DocID() string }] struct {
	index string
	recs  map[string]T
	found []T
	expr  filter.Expression
}

func newFakeReader[T interface{ DocID() string }](index string, recs ...T) *fakeReader[T] {
	f := &fakeReader[T]{index: index, recs: make(map[string]T)}
	for _, r := range recs {
		f.recs[r.DocID()] = r
	}
	return f
}

func (f *fakeReader[T]) Get(_ context.Context, id string) (T, error) {
	if r, ok := f.recs[id]; ok {
		return r, nil
	}
	var zero T
	return zero, domain.NewRecordNotFound(f.index, id)
}

func (f *fakeReader[T]) Find(_ context.Context, expr filter.Expression, _, limit int) ([]T, int, error) {
	f.expr = expr
	if limit < len(f.found) {
		return f.found[:limit], len(f.found), nil
	}
	return f.found, len(f.found), nil
}

type fakeCustomers struct {
	*fakeReader[entity.Customer]
	terms []domain.Term
}

func (f *fakeCustomers) Put(_ context.Context, rec entity.Customer) (bool, error) {
	_, exists := f.recs[rec.DocID()]
	f.recs[rec.DocID()] = rec
	return !exists, nil
}

func (f *fakeCustomers) Terms(_ context.Context, _ string, _ int) ([]domain.Term, error) {
	return f.terms, nil
}

type fakeStatus struct {
	st  domain.ImportStatus
	err error
}

func (f *fakeStatus) Last(_ context.Context) (domain.ImportStatus, error) { return f.st, f.err }

type fakePinger struct{}

func (fakePinger) Ping(_ context.Context) error { return nil }

type testAPI struct {
	router        http.Handler
	customers     *fakeCustomers
	orders        *fakeReader[entity.Order]
	orderProducts *fakeReader[entity.OrderProduct]
	status        *fakeStatus
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		customers: &fakeCustomers{fakeReader: newFakeReader(entity.CustomersIndex,
			entity.Customer{ID: 1, Firstname: "Steve", Lastname: "Smith"},
			entity.Customer{ID: 2, Firstname: "joe", Lastname: "Black"},
		)},
		orders: newFakeReader(entity.OrdersIndex,
			entity.Order{ID: 10, Customer: 1, OrderDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		),
		orderProducts: newFakeReader[entity.OrderProduct](entity.OrderProductsIndex),
		status:        &fakeStatus{err: domain.ErrNotImported},
	}
	products := newFakeReader(entity.ProductsIndex, entity.Product{ID: 100, Name: "Bike", Cost: 12.5})

	catalog := cataloguc.New(api.customers, api.orders, products, api.orderProducts, api.status)
	health := healthuc.New(fakePinger{}, api.status)
	server := NewServer(catalog, health, zap.NewNop())

	api.router = HandlerWithOptions(server, ServerOptions{
		BaseRouter: chi.NewRouter(),
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		},
	})
	return api
}

func (a *testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorResponseCode) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, status, rr.Body.String())
	}
	if resp := decode[ErrorResponse](t, rr); resp.Code != code {
		t.Errorf("code: got %s, want %s", resp.Code, code)
	}
}

// --- Customers ---

func TestGetCustomer(t *testing.T) {
	api := newTestAPI(t)
	rr := api.do(t, http.MethodGet, "/customers/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	c := decode[Customer](t, rr)
	if c.Id != 1 || c.Firstname != "Steve" || c.Lastname != "Smith" {
		t.Errorf("unexpected customer: %+v", c)
	}
}

func TestGetCustomer_NotFound(t *testing.T) {
	api := newTestAPI(t)
	expectError(t, api.do(t, http.MethodGet, "/customers/99", ""), http.StatusNotFound, ErrorResponseCodeRecordNotFound)
}

func TestGetCustomer_InvalidID(t *testing.T) {
	api := newTestAPI(t)
	expectError(t, api.do(t, http.MethodGet, "/customers/abc", ""), http.StatusBadRequest, ErrorResponseCodeBadRequest)
}

func TestListCustomers(t *testing.T) {
	api := newTestAPI(t)
	api.customers.found = []entity.Customer{{ID: 1, Firstname: "Steve"}, {ID: 3, Firstname: "steve"}}

	rr := api.do(t, http.MethodGet, "/customers?firstname=steve&limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	resp := decode[CustomerListResponse](t, rr)
	if resp.Total != 2 || len(resp.Items) != 1 {
		t.Errorf("unexpected page: %+v", resp)
	}
	if m := api.customers.expr.Must(); len(m) != 1 || m[0].Match() != "steve" {
		t.Errorf("unexpected filter: %+v", m)
	}
}

func TestListCustomers_BadParams(t *testing.T) {
	api := newTestAPI(t)

	expectError(t, api.do(t, http.MethodGet, "/customers", ""), http.StatusBadRequest, ErrorResponseCodeValidationFailed)
	expectError(t, api.do(t, http.MethodGet, "/customers?firstname=a&limit=x", ""),
		http.StatusBadRequest, ErrorResponseCodeBadRequest)
}

func TestListFirstnames(t *testing.T) {
	api := newTestAPI(t)
	api.customers.terms = []domain.Term{{Value: "Steve", Count: 2}, {Value: "steve", Count: 1}, {Value: "joe", Count: 1}}

	rr := api.do(t, http.MethodGet, "/customers/firstnames?limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	resp := decode[FirstnameTermsResponse](t, rr)
	if len(resp.Items) != 1 || resp.Items[0] != (FirstnameTerm{Firstname: "steve", Count: 3}) {
		t.Errorf("unexpected terms: %+v", resp.Items)
	}
}

func TestUpdateCustomer(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodPatch, "/customers/2", `{"lastname":"White"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	if c := decode[Customer](t, rr); c.Lastname != "White" || c.Firstname != "joe" {
		t.Errorf("unexpected customer: %+v", c)
	}
	if api.customers.recs["2"].Lastname != "White" {
		t.Error("update was not stored")
	}
}

func TestUpdateCustomer_Invalid(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		path string
		body string
		want int
		code ErrorResponseCode
	}{
		{"malformed body", "/customers/1", `{`, http.StatusBadRequest, ErrorResponseCodeBadRequest},
		{"missing lastname", "/customers/1", `{}`, http.StatusBadRequest, ErrorResponseCodeValidationFailed},
		{"blank lastname", "/customers/1", `{"lastname":" "}`, http.StatusBadRequest, ErrorResponseCodeValidationFailed},
		{"unknown customer", "/customers/7", `{"lastname":"X"}`, http.StatusNotFound, ErrorResponseCodeRecordNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, api.do(t, http.MethodPatch, tt.path, tt.body), tt.want, tt.code)
		})
	}
}

// --- Orders and products ---

func TestListCustomerOrders(t *testing.T) {
	api := newTestAPI(t)
	api.orders.found = []entity.Order{api.orders.recs["10"]}

	rr := api.do(t, http.MethodGet, "/customers/1/orders", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	resp := decode[OrderListResponse](t, rr)
	if len(resp.Items) != 1 || resp.Items[0].Id != 10 || resp.Items[0].OrderDate == nil {
		t.Errorf("unexpected orders: %+v", resp.Items)
	}

	expectError(t, api.do(t, http.MethodGet, "/customers/5/orders", ""), http.StatusNotFound, ErrorResponseCodeRecordNotFound)
}

func TestOrderAndProductLinks(t *testing.T) {
	api := newTestAPI(t)
	api.orderProducts.found = []entity.OrderProduct{{ID: 1, OrderID: 10, ProductID: 100}}

	for _, path := range []string{"/orders/10/products", "/products/100/orders"} {
		rr := api.do(t, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d (%s)", path, rr.Code, rr.Body.String())
		}
		resp := decode[OrderProductListResponse](t, rr)
		if len(resp.Items) != 1 || resp.Items[0] != (OrderProduct{Id: 1, OrderId: 10, ProductId: 100}) {
			t.Errorf("%s: unexpected links %+v", path, resp.Items)
		}
	}
}

func TestGetProduct(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/products/100", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if p := decode[Product](t, rr); p.Name != "Bike" || p.Cost != 12.5 {
		t.Errorf("unexpected product: %+v", p)
	}
	expectError(t, api.do(t, http.MethodGet, "/orders/11", ""), http.StatusNotFound, ErrorResponseCodeRecordNotFound)
}

// --- Status and health ---

func TestImportStatus(t *testing.T) {
	api := newTestAPI(t)
	expectError(t, api.do(t, http.MethodGet, "/import/status", ""), http.StatusNotFound, ErrorResponseCodeNotImported)

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	api.status.err = nil
	api.status.st = domain.ImportStatus{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Entities:   map[string]int{entity.KindCustomer: 2},
		Unmapped:   []domain.UnmappedField{{Shape: entity.KindCustomer, Field: "Lastname"}},
	}

	rr := api.do(t, http.MethodGet, "/import/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decode[ImportStatusResponse](t, rr)
	if resp.RunId != "run-1" || resp.DurationMs != 1500 || resp.Entities[entity.KindCustomer] != 2 {
		t.Errorf("unexpected status: %+v", resp)
	}
	if len(resp.Unmapped) != 1 || resp.Unmapped[0].Field != "Lastname" {
		t.Errorf("unexpected unmapped: %+v", resp.Unmapped)
	}
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("not imported: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if resp := decode[HealthResponse](t, rr); resp.Checks["dataset"] != string(healthuc.CheckMissing) {
		t.Errorf("unexpected checks: %+v", resp.Checks)
	}

	api.status.err = nil
	rr = api.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("imported: got %d, want %d", rr.Code, http.StatusOK)
	}
	if resp := decode[HealthResponse](t, rr); resp.Status != string(healthuc.Healthy) {
		t.Errorf("status: got %s", resp.Status)
	}
}
