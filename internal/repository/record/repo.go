// Package record stores imported entities as JSON documents behind one FT index per kind.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/customerdata/internal/db"
	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
	"github.com/kailas-cloud/customerdata/internal/importer"
)

// DefaultLimit applies when Find is called without a positive limit.
const DefaultLimit = 20

// Document is a record addressable by a store identifier.
type Document interface {
	DocID() string
}

// store is the consumer interface for records (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, q *db.ListQuery) (int, error)
	AggregateTerms(ctx context.Context, q *db.TermsQuery) ([]db.TermBucket, error)
}

// Repo persists records of one kind. Keys are <keyPrefix><name>:<id>.
type Repo[T Document] struct {
	store     store
	name      string
	keyPrefix string
	idAttr    string
	def       *db.IndexDefinition
}

// New creates a repository for the records of shape, indexed under name.
func New[T Document](s store, keyPrefix, name string, shape importer.Shape) (*Repo[T], error) {
	recPrefix := keyPrefix + name + ":"
	def, err := buildIndex(keyPrefix+name+":idx", recPrefix, shape)
	if err != nil {
		return nil, fmt.Errorf("build index %s: %w", name, err)
	}
	return &Repo[T]{
		store:     s,
		name:      name,
		keyPrefix: recPrefix,
		idAttr:    jsonName(shape.IDField()),
		def:       def,
	}, nil
}

// Name returns the record index name.
func (r *Repo[T]) Name() string { return r.name }

// Index returns the FT index definition backing the repository.
func (r *Repo[T]) Index() *db.IndexDefinition { return r.def }

// Ensure creates the index unless it already exists.
func (r *Repo[T]) Ensure(ctx context.Context) error {
	if err := r.store.CreateIndex(ctx, r.def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.def.Name, err)
	}
	return nil
}

// Reset drops the index together with its records and recreates it empty.
func (r *Repo[T]) Reset(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.def.Name, true); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.def.Name, err)
	}
	return r.Ensure(ctx)
}

// Put creates or replaces a record. Returns true if created.
func (r *Repo[T]) Put(ctx context.Context, rec T) (bool, error) {
	key := r.key(rec.DocID())
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal %s: %w", key, err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}
	return !exists, nil
}

// Get returns the record stored under id.
func (r *Repo[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	key := r.key(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return zero, domain.NewRecordNotFound(r.name, id)
		}
		return zero, fmt.Errorf("json.get %s: %w", key, err)
	}

	// JSON.GET with a $ path wraps the document in an array.
	var docs []T
	if err := json.Unmarshal(raw, &docs); err != nil {
		return zero, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	if len(docs) == 0 {
		return zero, domain.NewRecordNotFound(r.name, id)
	}
	return docs[0], nil
}

// Find returns records matching expr ordered by id, plus the total number of matches.
func (r *Repo[T]) Find(ctx context.Context, expr filter.Expression, offset, limit int) ([]T, int, error) {
	if err := r.checkFilter(expr); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("negative offset %d: %w", offset, domain.ErrInvalidQuery)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	res, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: r.def.Name,
		Filters:   expr,
		Offset:    offset,
		Limit:     limit,
		SortBy:    r.idAttr,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", r.name, err)
	}
	if res == nil || res.Total == 0 {
		return nil, 0, nil
	}

	out := make([]T, 0, len(res.Entries))
	for _, e := range res.Entries {
		var rec T
		if err := json.Unmarshal([]byte(e.Fields["$"]), &rec); err != nil {
			return nil, 0, fmt.Errorf("unmarshal %s: %w", e.Key, err)
		}
		out = append(out, rec)
	}
	return out, res.Total, nil
}

// Count returns the number of records matching expr; an empty expression counts all.
func (r *Repo[T]) Count(ctx context.Context, expr filter.Expression) (int, error) {
	if err := r.checkFilter(expr); err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, &db.ListQuery{IndexName: r.def.Name, Filters: expr})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.name, err)
	}
	return n, nil
}

// Terms groups all records by the distinct values of field, most frequent first.
func (r *Repo[T]) Terms(ctx context.Context, field string, limit int) ([]domain.Term, error) {
	if _, ok := r.def.Field(field); !ok {
		return nil, fmt.Errorf("field %q is not indexed on %s: %w", field, r.name, domain.ErrInvalidQuery)
	}
	buckets, err := r.store.AggregateTerms(ctx, &db.TermsQuery{
		IndexName: r.def.Name,
		Field:     field,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("terms %s.%s: %w", r.name, field, err)
	}

	terms := make([]domain.Term, len(buckets))
	for i, b := range buckets {
		terms[i] = domain.Term{Value: b.Key, Count: b.Count}
	}
	return terms, nil
}

func (r *Repo[T]) key(id string) string {
	return r.keyPrefix + id
}

// checkFilter rejects conditions on attributes the index does not carry.
func (r *Repo[T]) checkFilter(expr filter.Expression) error {
	groups := [][]filter.Condition{expr.Must(), expr.Should(), expr.MustNot()}
	for _, conds := range groups {
		for _, c := range conds {
			f, ok := r.def.Field(c.Key())
			if !ok {
				return fmt.Errorf("field %q is not indexed on %s: %w", c.Key(), r.name, domain.ErrInvalidQuery)
			}
			if c.IsMatch() && f.Type != db.IndexFieldTag {
				return fmt.Errorf("field %q is not a tag: %w", c.Key(), domain.ErrInvalidQuery)
			}
			if c.IsRange() && f.Type != db.IndexFieldNumeric {
				return fmt.Errorf("field %q is not numeric: %w", c.Key(), domain.ErrInvalidQuery)
			}
		}
	}
	return nil
}
