package customerdata

import "time"

// Customer is a buyer.
type Customer struct {
	ID        int64
	Firstname string
	Lastname  string
}

// Order is a purchase placed by a customer.
type Order struct {
	ID        int64
	Customer  int64
	OrderDate time.Time
}

// Product is a sellable item.
type Product struct {
	ID   int64
	Name string
	Cost float64
}

// OrderLine links an order to one of its products.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
}

// CustomerPage is a page of customers with the total number of matches.
type CustomerPage struct {
	Items []Customer
	Total int
}

// NameCount is how many customers share a first name.
type NameCount struct {
	Name  string
	Count int
}

// ImportReport summarizes an import run.
type ImportReport struct {
	RunID          string
	Source         string
	StartedAt      time.Time
	FinishedAt     time.Time
	Entities       map[string]int // shape name → records stored
	Relations      int
	BackReferences int
	Unmapped       []string // "Shape.Field"
}

// Duration returns how long the import ran.
func (r ImportReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"missing"/"error"
}
