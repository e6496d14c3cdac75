package customerdata

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/customerdata/internal/domain/entity"
)

// CustomerService reads and updates customers.
type CustomerService struct {
	svc catalogUseCase
	obs *observer
}

// Get returns one customer, or ErrNotFound.
func (s *CustomerService) Get(ctx context.Context, id int64) (c Customer, err error) {
	start := time.Now()
	defer func() { s.obs.observe("customer.get", start, err) }()

	rec, err := s.svc.CustomerByID(ctx, id)
	if err != nil {
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return customerFromEntity(rec), nil
}

// ByFirstname finds customers by exact first name, ignoring case.
// limit <= 0 uses the default page size.
func (s *CustomerService) ByFirstname(ctx context.Context, name string, limit int) (p CustomerPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("customer.by_firstname", start, err) }()

	hits, err := s.svc.CustomersByFirstname(ctx, name, limit)
	if err != nil {
		return CustomerPage{}, fmt.Errorf("find customers: %w", err)
	}
	items := make([]Customer, len(hits.Customers))
	for i, c := range hits.Customers {
		items[i] = customerFromEntity(c)
	}
	return CustomerPage{Items: items, Total: hits.Total}, nil
}

// FirstnameCounts returns the most frequent first names, lower-cased, most frequent first.
func (s *CustomerService) FirstnameCounts(ctx context.Context, limit int) (counts []NameCount, err error) {
	start := time.Now()
	defer func() { s.obs.observe("customer.firstname_counts", start, err) }()

	terms, err := s.svc.FirstnameTerms(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("firstname counts: %w", err)
	}
	counts = make([]NameCount, len(terms))
	for i, t := range terms {
		counts[i] = NameCount{Name: t.Value, Count: t.Count}
	}
	return counts, nil
}

// Orders returns the orders placed by a customer, ordered by id.
func (s *CustomerService) Orders(ctx context.Context, id int64, limit int) (orders []Order, err error) {
	start := time.Now()
	defer func() { s.obs.observe("customer.orders", start, err) }()

	recs, err := s.svc.OrdersByCustomer(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("customer orders: %w", err)
	}
	orders = make([]Order, len(recs))
	for i, o := range recs {
		orders[i] = orderFromEntity(o)
	}
	return orders, nil
}

// SetLastname replaces a customer's last name and returns the stored customer.
func (s *CustomerService) SetLastname(ctx context.Context, id int64, lastname string) (c Customer, err error) {
	start := time.Now()
	defer func() { s.obs.observe("customer.set_lastname", start, err) }()

	rec, err := s.svc.UpdateCustomerLastname(ctx, id, lastname)
	if err != nil {
		return Customer{}, fmt.Errorf("set lastname: %w", err)
	}
	return customerFromEntity(rec), nil
}

func customerFromEntity(c entity.Customer) Customer {
	return Customer{ID: c.ID, Firstname: c.Firstname, Lastname: c.Lastname}
}
