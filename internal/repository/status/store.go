// Package status keeps the outcome of the last dataset import in the KV store.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/customerdata/internal/db"
	"github.com/kailas-cloud/customerdata/internal/domain"
)

// Key is the KV key suffix holding the last import status.
const Key = "import:status"

// store is the consumer interface for status operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store reads and writes the import status as a JSON value under <keyPrefix>import:status.
type Store struct {
	store store
	key   string
}

// New creates a status store.
func New(s store, keyPrefix string) *Store {
	return &Store{store: s, key: keyPrefix + Key}
}

// Save replaces the stored status.
func (s *Store) Save(ctx context.Context, st domain.ImportStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("status marshal: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("status SET %s: %w", s.key, err)
	}
	return nil
}

// Last returns the stored status, or domain.ErrNotImported if no import has completed.
func (s *Store) Last(ctx context.Context) (domain.ImportStatus, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ImportStatus{}, domain.ErrNotImported
		}
		return domain.ImportStatus{}, fmt.Errorf("status GET %s: %w", s.key, err)
	}

	var st domain.ImportStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.ImportStatus{}, fmt.Errorf("status GET %s parse: %w", s.key, err)
	}
	return st, nil
}
