// Package catalog answers lookups, searches and aggregations over imported records.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
)

// Attribute names of the indexed record fields used in queries.
const (
	attrFirstname = "firstname"
	attrCustomer  = "customer"
	attrOrderID   = "orderId"
	attrProductID = "productId"
)

// CustomerHits is a page of customers plus the total number of matches.
type CustomerHits struct {
	Total     int
	Customers []entity.Customer
}

// Service serves read queries and customer updates.
type Service struct {
	customers       CustomerRepository
	orders          RecordReader[entity.Order]
	products        RecordReader[entity.Product]
	orderProducts   RecordReader[entity.OrderProduct]
	status          StatusReader
	defaultPageSize int
	maxPageSize     int
}

// New creates a catalog service.
func New(
	customers CustomerRepository,
	orders RecordReader[entity.Order],
	products RecordReader[entity.Product],
	orderProducts RecordReader[entity.OrderProduct],
	status StatusReader,
) *Service {
	return &Service{
		customers:       customers,
		orders:          orders,
		products:        products,
		orderProducts:   orderProducts,
		status:          status,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// CustomerByID returns one customer.
func (s *Service) CustomerByID(ctx context.Context, id int64) (entity.Customer, error) {
	c, err := s.customers.Get(ctx, formatID(id))
	if err != nil {
		return entity.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// OrderByID returns one order.
func (s *Service) OrderByID(ctx context.Context, id int64) (entity.Order, error) {
	o, err := s.orders.Get(ctx, formatID(id))
	if err != nil {
		return entity.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ProductByID returns one product.
func (s *Service) ProductByID(ctx context.Context, id int64) (entity.Product, error) {
	p, err := s.products.Get(ctx, formatID(id))
	if err != nil {
		return entity.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// OrdersByCustomer returns the orders placed by an existing customer, ordered by id.
func (s *Service) OrdersByCustomer(ctx context.Context, customerID int64, limit int) ([]entity.Order, error) {
	if _, err := s.CustomerByID(ctx, customerID); err != nil {
		return nil, err
	}
	orders, err := findEquals(ctx, s.orders, attrCustomer, customerID, s.pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("find orders of customer %d: %w", customerID, err)
	}
	return orders, nil
}

// OrderProductsByOrder returns the product links of an existing order.
func (s *Service) OrderProductsByOrder(ctx context.Context, orderID int64, limit int) ([]entity.OrderProduct, error) {
	if _, err := s.OrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	links, err := findEquals(ctx, s.orderProducts, attrOrderID, orderID, s.pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("find links of order %d: %w", orderID, err)
	}
	return links, nil
}

// OrderProductsByProduct returns the order links of an existing product.
func (s *Service) OrderProductsByProduct(ctx context.Context, productID int64, limit int) ([]entity.OrderProduct, error) {
	if _, err := s.ProductByID(ctx, productID); err != nil {
		return nil, err
	}
	links, err := findEquals(ctx, s.orderProducts, attrProductID, productID, s.pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("find links of product %d: %w", productID, err)
	}
	return links, nil
}

// CustomersByFirstname finds customers by exact first name, ignoring case.
func (s *Service) CustomersByFirstname(ctx context.Context, name string, limit int) (CustomerHits, error) {
	name = strings.TrimSpace(name)
	cond, err := filter.NewMatch(attrFirstname, name)
	if err != nil {
		return CustomerHits{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	expr, err := filter.All(cond)
	if err != nil {
		return CustomerHits{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	customers, total, err := s.customers.Find(ctx, expr, 0, s.pageSize(limit))
	if err != nil {
		return CustomerHits{}, fmt.Errorf("find customers named %q: %w", name, err)
	}
	return CustomerHits{Total: total, Customers: customers}, nil
}

// FirstnameTerms returns the most frequent customer first names, lower-cased.
// Names differing only in case are counted together.
func (s *Service) FirstnameTerms(ctx context.Context, limit int) ([]domain.Term, error) {
	limit = s.pageSize(limit)
	terms, err := s.customers.Terms(ctx, attrFirstname, 0)
	if err != nil {
		return nil, fmt.Errorf("firstname terms: %w", err)
	}
	return mergeFolded(terms, limit), nil
}

// UpdateCustomerLastname replaces a customer's last name and returns the stored record.
func (s *Service) UpdateCustomerLastname(ctx context.Context, id int64, lastname string) (entity.Customer, error) {
	lastname = strings.TrimSpace(lastname)
	if lastname == "" {
		return entity.Customer{}, fmt.Errorf("lastname is required: %w", domain.ErrInvalidQuery)
	}

	c, err := s.CustomerByID(ctx, id)
	if err != nil {
		return entity.Customer{}, err
	}
	c.Lastname = lastname
	if _, err := s.customers.Put(ctx, c); err != nil {
		return entity.Customer{}, fmt.Errorf("update customer %d: %w", id, err)
	}
	return c, nil
}

// Status returns the last completed import, or domain.ErrNotImported.
func (s *Service) Status(ctx context.Context) (domain.ImportStatus, error) {
	st, err := s.status.Last(ctx)
	if err != nil {
		return domain.ImportStatus{}, fmt.Errorf("import status: %w", err)
	}
	return st, nil
}

func (s *Service) pageSize(limit int) int {
	if limit <= 0 {
		return s.defaultPageSize
	}
	return min(limit, s.maxPageSize)
}

func findEquals[T any](ctx context.Context, repo RecordReader[T], attr string, id int64, limit int) ([]T, error) {
	cond, err := filter.NewEquals(attr, float64(id))
	if err != nil {
		return nil, err
	}
	expr, err := filter.All(cond)
	if err != nil {
		return nil, err
	}
	recs, _, err := repo.Find(ctx, expr, 0, limit)
	return recs, err
}

// mergeFolded lower-cases term values, sums counts of equal values and keeps the top limit.
func mergeFolded(terms []domain.Term, limit int) []domain.Term {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[strings.ToLower(t.Value)] += t.Count
	}

	out := make([]domain.Term, 0, len(counts))
	for v, n := range counts {
		out = append(out, domain.Term{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
