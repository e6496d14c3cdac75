package customerdata

import "github.com/kailas-cloud/customerdata/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound     = domain.ErrNotFound
	ErrInvalidQuery = domain.ErrInvalidQuery
	ErrNotImported  = domain.ErrNotImported
)
