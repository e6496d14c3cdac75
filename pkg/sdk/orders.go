package customerdata

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/customerdata/internal/domain/entity"
)

// OrderService reads orders and their lines.
type OrderService struct {
	svc catalogUseCase
	obs *observer
}

// Get returns one order, or ErrNotFound.
func (s *OrderService) Get(ctx context.Context, id int64) (o Order, err error) {
	start := time.Now()
	defer func() { s.obs.observe("order.get", start, err) }()

	rec, err := s.svc.OrderByID(ctx, id)
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return orderFromEntity(rec), nil
}

// Lines returns the product lines of an order.
func (s *OrderService) Lines(ctx context.Context, id int64, limit int) (lines []OrderLine, err error) {
	start := time.Now()
	defer func() { s.obs.observe("order.lines", start, err) }()

	recs, err := s.svc.OrderProductsByOrder(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("order lines: %w", err)
	}
	return linesFromEntities(recs), nil
}

// ProductService reads products and the orders containing them.
type ProductService struct {
	svc catalogUseCase
	obs *observer
}

// Get returns one product, or ErrNotFound.
func (s *ProductService) Get(ctx context.Context, id int64) (p Product, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.get", start, err) }()

	rec, err := s.svc.ProductByID(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return Product{ID: rec.ID, Name: rec.Name, Cost: rec.Cost}, nil
}

// Lines returns the order lines containing a product.
func (s *ProductService) Lines(ctx context.Context, id int64, limit int) (lines []OrderLine, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.lines", start, err) }()

	recs, err := s.svc.OrderProductsByProduct(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("product lines: %w", err)
	}
	return linesFromEntities(recs), nil
}

func orderFromEntity(o entity.Order) Order {
	return Order{ID: o.ID, Customer: o.Customer, OrderDate: o.OrderDate}
}

func linesFromEntities(recs []entity.OrderProduct) []OrderLine {
	lines := make([]OrderLine, len(recs))
	for i, r := range recs {
		lines[i] = OrderLine{ID: r.ID, OrderID: r.OrderID, ProductID: r.ProductID}
	}
	return lines
}
