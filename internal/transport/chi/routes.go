package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of API operations.
type ServerInterface interface {
	// (GET /customers)
	ListCustomers(w http.ResponseWriter, r *http.Request, params ListCustomersParams)
	// (GET /customers/firstnames)
	ListFirstnames(w http.ResponseWriter, r *http.Request, params LimitParams)
	// (GET /customers/{id})
	GetCustomer(w http.ResponseWriter, r *http.Request, id int64)
	// (PATCH /customers/{id})
	UpdateCustomer(w http.ResponseWriter, r *http.Request, id int64)
	// (GET /customers/{id}/orders)
	ListCustomerOrders(w http.ResponseWriter, r *http.Request, id int64, params LimitParams)
	// (GET /orders/{id})
	GetOrder(w http.ResponseWriter, r *http.Request, id int64)
	// (GET /orders/{id}/products)
	ListOrderProducts(w http.ResponseWriter, r *http.Request, id int64, params LimitParams)
	// (GET /products/{id})
	GetProduct(w http.ResponseWriter, r *http.Request, id int64)
	// (GET /products/{id}/orders)
	ListProductOrders(w http.ResponseWriter, r *http.Request, id int64, params LimitParams)
	// (GET /import/status)
	GetImportStatus(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ServerOptions configures route registration.
type ServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// wrapper binds path and query parameters before calling the ServerInterface.
type wrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions registers every API route on the base router.
func HandlerWithOptions(si ServerInterface, options ServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	w := &wrapper{handler: si, errorHandlerFunc: options.ErrorHandlerFunc}

	r.Group(func(r chi.Router) {
		r.Get("/customers", w.ListCustomers)
		r.Get("/customers/firstnames", w.ListFirstnames)
		r.Get("/customers/{id}", w.GetCustomer)
		r.Patch("/customers/{id}", w.UpdateCustomer)
		r.Get("/customers/{id}/orders", w.ListCustomerOrders)
		r.Get("/orders/{id}", w.GetOrder)
		r.Get("/orders/{id}/products", w.ListOrderProducts)
		r.Get("/products/{id}", w.GetProduct)
		r.Get("/products/{id}/orders", w.ListProductOrders)
		r.Get("/import/status", w.GetImportStatus)
		r.Get("/health", w.HealthCheck)
		r.Get("/metrics", w.Metrics)
	})

	return r
}

func (w *wrapper) ListCustomers(rw http.ResponseWriter, r *http.Request) {
	var params ListCustomersParams
	if err := runtime.BindQueryParameter("form", true, false, "firstname", r.URL.Query(), &params.Firstname); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "firstname", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	w.handler.ListCustomers(rw, r, params)
}

func (w *wrapper) ListFirstnames(rw http.ResponseWriter, r *http.Request) {
	params, ok := w.bindLimit(rw, r)
	if !ok {
		return
	}
	w.handler.ListFirstnames(rw, r, params)
}

func (w *wrapper) GetCustomer(rw http.ResponseWriter, r *http.Request) {
	if id, ok := w.bindID(rw, r); ok {
		w.handler.GetCustomer(rw, r, id)
	}
}

func (w *wrapper) UpdateCustomer(rw http.ResponseWriter, r *http.Request) {
	if id, ok := w.bindID(rw, r); ok {
		w.handler.UpdateCustomer(rw, r, id)
	}
}

func (w *wrapper) ListCustomerOrders(rw http.ResponseWriter, r *http.Request) {
	id, ok := w.bindID(rw, r)
	if !ok {
		return
	}
	params, ok := w.bindLimit(rw, r)
	if !ok {
		return
	}
	w.handler.ListCustomerOrders(rw, r, id, params)
}

func (w *wrapper) GetOrder(rw http.ResponseWriter, r *http.Request) {
	if id, ok := w.bindID(rw, r); ok {
		w.handler.GetOrder(rw, r, id)
	}
}

func (w *wrapper) ListOrderProducts(rw http.ResponseWriter, r *http.Request) {
	id, ok := w.bindID(rw, r)
	if !ok {
		return
	}
	params, ok := w.bindLimit(rw, r)
	if !ok {
		return
	}
	w.handler.ListOrderProducts(rw, r, id, params)
}

func (w *wrapper) GetProduct(rw http.ResponseWriter, r *http.Request) {
	if id, ok := w.bindID(rw, r); ok {
		w.handler.GetProduct(rw, r, id)
	}
}

func (w *wrapper) ListProductOrders(rw http.ResponseWriter, r *http.Request) {
	id, ok := w.bindID(rw, r)
	if !ok {
		return
	}
	params, ok := w.bindLimit(rw, r)
	if !ok {
		return
	}
	w.handler.ListProductOrders(rw, r, id, params)
}

func (w *wrapper) GetImportStatus(rw http.ResponseWriter, r *http.Request) {
	w.handler.GetImportStatus(rw, r)
}

func (w *wrapper) HealthCheck(rw http.ResponseWriter, r *http.Request) {
	w.handler.HealthCheck(rw, r)
}

func (w *wrapper) Metrics(rw http.ResponseWriter, r *http.Request) {
	w.handler.Metrics(rw, r)
}

func (w *wrapper) bindID(rw http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return 0, false
	}
	return id, true
}

func (w *wrapper) bindLimit(rw http.ResponseWriter, r *http.Request) (LimitParams, bool) {
	var params LimitParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return params, false
	}
	return params, true
}
