package customerdata

import (
	"context"
	"io"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	cataloguc "github.com/kailas-cloud/customerdata/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/customerdata/internal/usecase/health"
)

// --- loadUseCase mock ---

type mockLoadUC struct {
	loadFn func(ctx context.Context, r io.Reader, source string) (domain.ImportStatus, error)
}

func (m *mockLoadUC) Load(ctx context.Context, r io.Reader, source string) (domain.ImportStatus, error) {
	return m.loadFn(ctx, r, source)
}

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	customerFn      func(ctx context.Context, id int64) (entity.Customer, error)
	orderFn         func(ctx context.Context, id int64) (entity.Order, error)
	productFn       func(ctx context.Context, id int64) (entity.Product, error)
	ordersFn        func(ctx context.Context, customerID int64, limit int) ([]entity.Order, error)
	linesByOrderFn  func(ctx context.Context, orderID int64, limit int) ([]entity.OrderProduct, error)
	linesByProdFn   func(ctx context.Context, productID int64, limit int) ([]entity.OrderProduct, error)
	byFirstnameFn   func(ctx context.Context, name string, limit int) (cataloguc.CustomerHits, error)
	termsFn         func(ctx context.Context, limit int) ([]domain.Term, error)
	updateLastnameF func(ctx context.Context, id int64, lastname string) (entity.Customer, error)
	statusFn        func(ctx context.Context) (domain.ImportStatus, error)
}

func (m *mockCatalogUC) CustomerByID(ctx context.Context, id int64) (entity.Customer, error) {
	return m.customerFn(ctx, id)
}

func (m *mockCatalogUC) OrderByID(ctx context.Context, id int64) (entity.Order, error) {
	return m.orderFn(ctx, id)
}

func (m *mockCatalogUC) ProductByID(ctx context.Context, id int64) (entity.Product, error) {
	return m.productFn(ctx, id)
}

func (m *mockCatalogUC) OrdersByCustomer(ctx context.Context, customerID int64, limit int) ([]entity.Order, error) {
	return m.ordersFn(ctx, customerID, limit)
}

func (m *mockCatalogUC) OrderProductsByOrder(
	ctx context.Context, orderID int64, limit int,
) ([]entity.OrderProduct, error) {
	return m.linesByOrderFn(ctx, orderID, limit)
}

func (m *mockCatalogUC) OrderProductsByProduct(
	ctx context.Context, productID int64, limit int,
) ([]entity.OrderProduct, error) {
	return m.linesByProdFn(ctx, productID, limit)
}

func (m *mockCatalogUC) CustomersByFirstname(
	ctx context.Context, name string, limit int,
) (cataloguc.CustomerHits, error) {
	return m.byFirstnameFn(ctx, name, limit)
}

func (m *mockCatalogUC) FirstnameTerms(ctx context.Context, limit int) ([]domain.Term, error) {
	return m.termsFn(ctx, limit)
}

func (m *mockCatalogUC) UpdateCustomerLastname(
	ctx context.Context, id int64, lastname string,
) (entity.Customer, error) {
	return m.updateLastnameF(ctx, id, lastname)
}

func (m *mockCatalogUC) Status(ctx context.Context) (domain.ImportStatus, error) {
	return m.statusFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(loader loadUseCase, catalog catalogUseCase, health healthUseCase) *Client {
	return &Client{
		loader:    loader,
		catalog:   catalog,
		healthSvc: health,
	}
}
