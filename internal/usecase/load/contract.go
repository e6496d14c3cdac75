package load

import (
	"context"

	"github.com/kailas-cloud/customerdata/internal/domain"
)

// RecordRepository stores the records of one kind.
type RecordRepository[T any] interface {
	Ensure(ctx context.Context) error
	Reset(ctx context.Context) error
	Put(ctx context.Context, rec T) (created bool, err error)
	Get(ctx context.Context, id string) (T, error)
}

// StatusWriter persists the status of the last completed import.
type StatusWriter interface {
	Save(ctx context.Context, st domain.ImportStatus) error
}
