package customerdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/customerdata/internal/db"
	dbRedis "github.com/kailas-cloud/customerdata/internal/db/redis"
	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/repository/record"
	statusrepo "github.com/kailas-cloud/customerdata/internal/repository/status"
	cataloguc "github.com/kailas-cloud/customerdata/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/customerdata/internal/usecase/health"
	loaduc "github.com/kailas-cloud/customerdata/internal/usecase/load"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "customerdata:"
)

// Internal interfaces, substituted in tests.
type loadUseCase interface {
	Load(ctx context.Context, r io.Reader, source string) (domain.ImportStatus, error)
}

type catalogUseCase interface {
	CustomerByID(ctx context.Context, id int64) (entity.Customer, error)
	OrderByID(ctx context.Context, id int64) (entity.Order, error)
	ProductByID(ctx context.Context, id int64) (entity.Product, error)
	OrdersByCustomer(ctx context.Context, customerID int64, limit int) ([]entity.Order, error)
	OrderProductsByOrder(ctx context.Context, orderID int64, limit int) ([]entity.OrderProduct, error)
	OrderProductsByProduct(ctx context.Context, productID int64, limit int) ([]entity.OrderProduct, error)
	CustomersByFirstname(ctx context.Context, name string, limit int) (cataloguc.CustomerHits, error)
	FirstnameTerms(ctx context.Context, limit int) ([]domain.Term, error)
	UpdateCustomerLastname(ctx context.Context, id int64, lastname string) (entity.Customer, error)
	Status(ctx context.Context) (domain.ImportStatus, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the customerdata SDK entry point.
type Client struct {
	store     db.Store
	loader    loadUseCase
	catalog   catalogUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
		keyPrefix:        defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("customerdata: database address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("customerdata: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("customerdata: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	prefix := cfg.keyPrefix

	customers, err := record.New[entity.Customer](store, prefix, entity.CustomersIndex, entity.CustomerShape)
	if err != nil {
		return nil, fmt.Errorf("customerdata: %w", err)
	}
	orders, err := record.New[entity.Order](store, prefix, entity.OrdersIndex, entity.OrderShape)
	if err != nil {
		return nil, fmt.Errorf("customerdata: %w", err)
	}
	products, err := record.New[entity.Product](store, prefix, entity.ProductsIndex, entity.ProductShape)
	if err != nil {
		return nil, fmt.Errorf("customerdata: %w", err)
	}
	links, err := record.New[entity.OrderProduct](store, prefix, entity.OrderProductsIndex, entity.OrderProductShape)
	if err != nil {
		return nil, fmt.Errorf("customerdata: %w", err)
	}
	status := statusrepo.New(store, prefix)

	loader := loaduc.New(loaduc.Repos{
		Customers:     customers,
		Orders:        orders,
		Products:      products,
		OrderProducts: links,
	}, status, loaduc.Options{Namespace: cfg.namespace, Reset: cfg.reset})

	catalog := cataloguc.New(customers, orders, products, links, status).
		WithPagination(cfg.defaultPageSize, cfg.maxPageSize)

	return &Client{
		store:     store,
		loader:    loader,
		catalog:   catalog,
		healthSvc: healthuc.New(store, status),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Import parses the XML dataset read from r and stores its records.
// source labels the run in the import status. Nothing is written when the
// document fails to parse.
func (c *Client) Import(ctx context.Context, r io.Reader, source string) (rep ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import", start, err) }()

	st, err := c.loader.Load(ctx, r, source)
	if err != nil {
		return ImportReport{}, fmt.Errorf("import: %w", err)
	}
	return reportFromStatus(st), nil
}

// LastImport returns the report of the last completed import, or ErrNotImported.
func (c *Client) LastImport(ctx context.Context) (rep ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import.status", start, err) }()

	st, err := c.catalog.Status(ctx)
	if err != nil {
		return ImportReport{}, fmt.Errorf("last import: %w", err)
	}
	return reportFromStatus(st), nil
}

// Customers returns the customer service.
func (c *Client) Customers() *CustomerService {
	return &CustomerService{svc: c.catalog, obs: c.obs}
}

// Orders returns the order service.
func (c *Client) Orders() *OrderService {
	return &OrderService{svc: c.catalog, obs: c.obs}
}

// Products returns the product service.
func (c *Client) Products() *ProductService {
	return &ProductService{svc: c.catalog, obs: c.obs}
}

func reportFromStatus(st domain.ImportStatus) ImportReport {
	rep := ImportReport{
		RunID:          st.RunID,
		Source:         st.Source,
		StartedAt:      st.StartedAt,
		FinishedAt:     st.FinishedAt,
		Entities:       st.Entities,
		Relations:      st.Relations,
		BackReferences: st.BackRefs,
	}
	for _, u := range st.Unmapped {
		rep.Unmapped = append(rep.Unmapped, u.Shape+"."+u.Field)
	}
	return rep
}
