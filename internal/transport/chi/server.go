package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	cataloguc "github.com/kailas-cloud/customerdata/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/customerdata/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface on top of the catalog and health services.
type Server struct {
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeRecordNotFound),
		sentinelHandler(domain.ErrNotImported, http.StatusNotFound, ErrorResponseCodeNotImported),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
	}
	return s
}

// ListCustomers handles GET /customers.
func (s *Server) ListCustomers(w http.ResponseWriter, r *http.Request, params ListCustomersParams) {
	hits, err := s.catalog.CustomersByFirstname(r.Context(), derefString(params.Firstname), derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]Customer, len(hits.Customers))
	for i, c := range hits.Customers {
		items[i] = customerToAPI(c)
	}
	writeJSON(w, http.StatusOK, CustomerListResponse{Items: items, Total: hits.Total})
}

// ListFirstnames handles GET /customers/firstnames.
func (s *Server) ListFirstnames(w http.ResponseWriter, r *http.Request, params LimitParams) {
	terms, err := s.catalog.FirstnameTerms(r.Context(), derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]FirstnameTerm, len(terms))
	for i, t := range terms {
		items[i] = FirstnameTerm{Firstname: t.Value, Count: t.Count}
	}
	writeJSON(w, http.StatusOK, FirstnameTermsResponse{Items: items})
}

// GetCustomer handles GET /customers/{id}.
func (s *Server) GetCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	c, err := s.catalog.CustomerByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToAPI(c))
}

// UpdateCustomer handles PATCH /customers/{id}.
func (s *Server) UpdateCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Lastname == nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "lastname is required")
		return
	}

	c, err := s.catalog.UpdateCustomerLastname(r.Context(), id, *req.Lastname)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToAPI(c))
}

// ListCustomerOrders handles GET /customers/{id}/orders.
func (s *Server) ListCustomerOrders(w http.ResponseWriter, r *http.Request, id int64, params LimitParams) {
	orders, err := s.catalog.OrdersByCustomer(r.Context(), id, derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]Order, len(orders))
	for i, o := range orders {
		items[i] = orderToAPI(o)
	}
	writeJSON(w, http.StatusOK, OrderListResponse{Items: items})
}

// GetOrder handles GET /orders/{id}.
func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request, id int64) {
	o, err := s.catalog.OrderByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToAPI(o))
}

// ListOrderProducts handles GET /orders/{id}/products.
func (s *Server) ListOrderProducts(w http.ResponseWriter, r *http.Request, id int64, params LimitParams) {
	links, err := s.catalog.OrderProductsByOrder(r.Context(), id, derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderProductListResponse{Items: linksToAPI(links)})
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request, id int64) {
	p, err := s.catalog.ProductByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Product{Id: p.ID, Name: p.Name, Cost: p.Cost})
}

// ListProductOrders handles GET /products/{id}/orders.
func (s *Server) ListProductOrders(w http.ResponseWriter, r *http.Request, id int64, params LimitParams) {
	links, err := s.catalog.OrderProductsByProduct(r.Context(), id, derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderProductListResponse{Items: linksToAPI(links)})
}

// GetImportStatus handles GET /import/status.
func (s *Server) GetImportStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.catalog.Status(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusToAPI(st))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var nf *domain.RecordNotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrNotImported,
		domain.ErrInvalidQuery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func customerToAPI(c entity.Customer) Customer {
	return Customer{Id: c.ID, Firstname: c.Firstname, Lastname: c.Lastname}
}

func orderToAPI(o entity.Order) Order {
	out := Order{Id: o.ID, Customer: o.Customer}
	if !o.OrderDate.IsZero() {
		d := o.OrderDate.UTC()
		out.OrderDate = &d
	}
	return out
}

func linksToAPI(links []entity.OrderProduct) []OrderProduct {
	items := make([]OrderProduct, len(links))
	for i, l := range links {
		items[i] = OrderProduct{Id: l.ID, OrderId: l.OrderID, ProductId: l.ProductID}
	}
	return items
}

func statusToAPI(st domain.ImportStatus) ImportStatusResponse {
	resp := ImportStatusResponse{
		RunId:          st.RunID,
		Source:         st.Source,
		StartedAt:      st.StartedAt.UTC(),
		FinishedAt:     st.FinishedAt.UTC(),
		DurationMs:     st.Duration().Milliseconds(),
		Entities:       st.Entities,
		Relations:      st.Relations,
		BackReferences: st.BackRefs,
	}
	for _, u := range st.Unmapped {
		resp.Unmapped = append(resp.Unmapped, UnmappedField(u))
	}
	return resp
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
