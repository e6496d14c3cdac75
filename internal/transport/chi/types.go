package chi

import "time"

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned by the API.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeRecordNotFound   ErrorResponseCode = "record_not_found"
	ErrorResponseCodeNotImported      ErrorResponseCode = "dataset_not_imported"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Customer is the API view of a customer.
type Customer struct {
	Id        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Order is the API view of an order.
type Order struct {
	Id        int64      `json:"id"`
	Customer  int64      `json:"customer"`
	OrderDate *time.Time `json:"order_date,omitempty"`
}

// Product is the API view of a product.
type Product struct {
	Id   int64   `json:"id"`
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// OrderProduct is the API view of an order/product link.
type OrderProduct struct {
	Id        int64 `json:"id"`
	OrderId   int64 `json:"order_id"`
	ProductId int64 `json:"product_id"`
}

// CustomerListResponse is a page of customers with the total match count.
type CustomerListResponse struct {
	Items []Customer `json:"items"`
	Total int        `json:"total"`
}

// OrderListResponse is a list of orders.
type OrderListResponse struct {
	Items []Order `json:"items"`
}

// OrderProductListResponse is a list of order/product links.
type OrderProductListResponse struct {
	Items []OrderProduct `json:"items"`
}

// FirstnameTerm is one first name bucket.
type FirstnameTerm struct {
	Firstname string `json:"firstname"`
	Count     int    `json:"count"`
}

// FirstnameTermsResponse lists the most frequent first names.
type FirstnameTermsResponse struct {
	Items []FirstnameTerm `json:"items"`
}

// UpdateCustomerRequest is the body of PATCH /customers/{id}.
type UpdateCustomerRequest struct {
	Lastname *string `json:"lastname"`
}

// UnmappedField is a shape field without a source value.
type UnmappedField struct {
	Shape string `json:"shape"`
	Field string `json:"field"`
}

// ImportStatusResponse describes the last completed import.
type ImportStatusResponse struct {
	RunId          string          `json:"run_id"`
	Source         string          `json:"source"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	DurationMs     int64           `json:"duration_ms"`
	Entities       map[string]int  `json:"entities"`
	Relations      int             `json:"relations"`
	BackReferences int             `json:"back_references"`
	Unmapped       []UnmappedField `json:"unmapped,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListCustomersParams are the query parameters of GET /customers.
type ListCustomersParams struct {
	Firstname *string
	Limit     *int
}

// LimitParams carries the optional limit query parameter.
type LimitParams struct {
	Limit *int
}
