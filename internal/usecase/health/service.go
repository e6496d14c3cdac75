package health

import (
	"context"
	"errors"

	"github.com/kailas-cloud/customerdata/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the component has nothing to serve yet.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	status StatusReader
}

// New creates a Service. status can be nil.
func New(db DBPinger, status StatusReader) *Service {
	return &Service{db: db, status: status}
}

// Check runs health checks against all components.
// The database being down is unhealthy; a missing dataset only degrades.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["database"] = CheckOK

	if s.status != nil {
		_, err := s.status.Last(ctx)
		switch {
		case err == nil:
			checks["dataset"] = CheckOK
		case errors.Is(err, domain.ErrNotImported):
			checks["dataset"] = CheckMissing
		default:
			checks["dataset"] = CheckError
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
