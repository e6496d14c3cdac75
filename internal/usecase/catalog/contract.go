package catalog

import (
	"context"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
)

// RecordReader reads the records of one kind.
type RecordReader[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	Find(ctx context.Context, expr filter.Expression, offset, limit int) (recs []T, total int, err error)
}

// CustomerRepository adds the customer write and aggregation operations.
type CustomerRepository interface {
	RecordReader[entity.Customer]
	Put(ctx context.Context, rec entity.Customer) (created bool, err error)
	Terms(ctx context.Context, field string, limit int) ([]domain.Term, error)
}

// StatusReader reads the status of the last completed import.
type StatusReader interface {
	Last(ctx context.Context) (domain.ImportStatus, error)
}
