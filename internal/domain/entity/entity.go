// Package entity holds the customer-data records and their import shapes.
package entity

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/customerdata/internal/importer"
)

// Shape names as they appear in the source dataset.
const (
	KindCustomer     = "Customer"
	KindOrder        = "Order"
	KindProduct      = "Product"
	KindOrderProduct = "OrderProduct"
)

// Index names, one per record kind.
const (
	CustomersIndex     = "customers"
	OrdersIndex        = "orders"
	ProductsIndex      = "products"
	OrderProductsIndex = "order-products"
)

// Customer is a buyer.
type Customer struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// DocID returns the store identifier.
func (c Customer) DocID() string { return strconv.FormatInt(c.ID, 10) }

// Order is a purchase placed by a customer. Customer is back-filled after import.
type Order struct {
	ID        int64     `json:"id"`
	Customer  int64     `json:"customer"`
	OrderDate time.Time `json:"orderDate"`
}

// DocID returns the store identifier.
func (o Order) DocID() string { return strconv.FormatInt(o.ID, 10) }

// Product is a sellable item.
type Product struct {
	ID   int64   `json:"id"`
	Cost float64 `json:"cost"`
	Name string  `json:"name"`
}

// DocID returns the store identifier.
func (p Product) DocID() string { return strconv.FormatInt(p.ID, 10) }

// OrderProduct links an order to one of its products. ID is synthetic.
type OrderProduct struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"orderId"`
	ProductID int64 `json:"productId"`
}

// DocID returns the store identifier.
func (op OrderProduct) DocID() string { return strconv.FormatInt(op.ID, 10) }

// Import shapes. Field names match the dataset element names.
var (
	CustomerShape = importer.NewSchema[Customer](KindCustomer).
		Int("Id", func(c *Customer, v int64) { c.ID = v }).
		Text("Firstname", func(c *Customer, v string) { c.Firstname = v }).
		Text("Lastname", func(c *Customer, v string) { c.Lastname = v }).
		ID("Id").
		MustBuild()

	OrderShape = importer.NewSchema[Order](KindOrder).
		Int("Id", func(o *Order, v int64) { o.ID = v }).
		Int("Customer", func(o *Order, v int64) { o.Customer = v }).
		Time("OrderDate", func(o *Order, v time.Time) { o.OrderDate = v }).
		ID("Id").
		MustBuild()

	ProductShape = importer.NewSchema[Product](KindProduct).
		Int("Id", func(p *Product, v int64) { p.ID = v }).
		Float("Cost", func(p *Product, v float64) { p.Cost = v }).
		Text("Name", func(p *Product, v string) { p.Name = v }).
		ID("Id").
		MustBuild()

	// OrderProductShape is never imported directly; it describes the link index.
	OrderProductShape = importer.NewSchema[OrderProduct](KindOrderProduct).
		Int("Id", func(op *OrderProduct, v int64) { op.ID = v }).
		Int("OrderId", func(op *OrderProduct, v int64) { op.OrderID = v }).
		Int("ProductId", func(op *OrderProduct, v int64) { op.ProductID = v }).
		ID("Id").
		MustBuild()
)

// OrderProducts is the relation between orders and products in the dataset.
var OrderProducts = importer.Relation{Link: KindOrderProduct, Left: KindOrder, Right: KindProduct}

// OrderCustomer is the order -> customer back-reference.
var OrderCustomer = importer.BackReference{Collection: KindOrder, Field: "Customer"}
