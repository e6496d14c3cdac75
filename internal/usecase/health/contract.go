package health

import (
	"context"

	"github.com/kailas-cloud/customerdata/internal/domain"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// StatusReader reads the status of the last completed import.
type StatusReader interface {
	Last(ctx context.Context) (domain.ImportStatus, error)
}
