// Package load imports an XML dataset into the record store.
package load

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/customerdata/internal/domain"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	"github.com/kailas-cloud/customerdata/internal/importer"
	"github.com/kailas-cloud/customerdata/internal/logger"
	"github.com/kailas-cloud/customerdata/internal/metrics"
)

// Repos groups the record repositories an import writes to.
type Repos struct {
	Customers     RecordRepository[entity.Customer]
	Orders        RecordRepository[entity.Order]
	Products      RecordRepository[entity.Product]
	OrderProducts RecordRepository[entity.OrderProduct]
}

// Options tunes an import.
type Options struct {
	// Namespace restricts matching to one XML namespace; empty matches any.
	Namespace string
	// Reset drops existing records before importing.
	Reset bool
}

// Service loads datasets.
type Service struct {
	repos  Repos
	status StatusWriter
	opts   Options
	now    func() time.Time
}

// New creates a load service.
func New(repos Repos, status StatusWriter, opts Options) *Service {
	return &Service{
		repos:  repos,
		status: status,
		opts:   opts,
		now:    time.Now,
	}
}

// Load imports the dataset read from r. source labels the run in the status record.
//
// Customers, orders and products are stored first, then one OrderProduct per
// relation pair with sequential IDs from 1, then each order's customer reference.
// Any failure aborts the run; records stored before it are kept.
func (s *Service) Load(ctx context.Context, r io.Reader, source string) (domain.ImportStatus, error) {
	st := domain.ImportStatus{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: s.now(),
		Entities:  make(map[string]int),
	}
	log := logger.FromContext(ctx).With(zap.String("run_id", st.RunID), zap.String("source", source))

	err := s.load(ctx, log, r, &st)
	st.FinishedAt = s.now()
	metrics.ImportDuration.Observe(st.Duration().Seconds())
	if err != nil {
		metrics.ImportRunsTotal.WithLabelValues("error").Inc()
		log.Error("Import failed", zap.Error(err))
		return st, err
	}

	if err := s.status.Save(ctx, st); err != nil {
		metrics.ImportRunsTotal.WithLabelValues("error").Inc()
		return st, fmt.Errorf("save import status: %w", err)
	}
	metrics.ImportRunsTotal.WithLabelValues("ok").Inc()

	log.Info("Import finished",
		zap.Any("entities", st.Entities),
		zap.Int("relations", st.Relations),
		zap.Int("back_references", st.BackRefs),
		zap.Int("unmapped", len(st.Unmapped)),
		zap.Duration("duration", st.Duration()),
	)
	return st, nil
}

func (s *Service) load(ctx context.Context, log *zap.Logger, r io.Reader, st *domain.ImportStatus) error {
	root, err := importer.ParseXML(r)
	if err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}

	if err := s.prepare(ctx); err != nil {
		return err
	}

	im := importer.New(root, importer.WithNamespace(s.opts.Namespace))

	shapes := []importer.Shape{entity.CustomerShape, entity.OrderShape, entity.ProductShape}
	onUnmapped := func(shape, field string) {
		log.Warn("Unmapped field", zap.String("shape", shape), zap.String("field", field))
		metrics.ImportUnmappedFieldsTotal.WithLabelValues(shape).Inc()
		st.Unmapped = append(st.Unmapped, domain.UnmappedField{Shape: shape, Field: field})
	}
	if err := im.ImportEntities(shapes, func(e importer.Entity) error {
		if err := s.storeEntity(ctx, e); err != nil {
			return err
		}
		st.Entities[e.Shape]++
		metrics.ImportRecordsTotal.WithLabelValues(e.Shape).Inc()
		return nil
	}, onUnmapped); err != nil {
		return fmt.Errorf("import entities: %w", err)
	}

	var nextID int64
	if err := im.ImportRelations(entity.OrderProducts, func(order, product importer.Key) error {
		nextID++
		op := entity.OrderProduct{ID: nextID, OrderID: order.Int(), ProductID: product.Int()}
		if _, err := s.repos.OrderProducts.Put(ctx, op); err != nil {
			return fmt.Errorf("store %s %d: %w", entity.KindOrderProduct, op.ID, err)
		}
		st.Relations++
		st.Entities[entity.KindOrderProduct]++
		metrics.ImportRecordsTotal.WithLabelValues(entity.KindOrderProduct).Inc()
		return nil
	}); err != nil {
		return fmt.Errorf("import relations: %w", err)
	}

	if err := im.ImportScalarForeignKey(entity.OrderCustomer, func(order, customer importer.Key) error {
		o, err := s.repos.Orders.Get(ctx, order.String())
		if err != nil {
			return fmt.Errorf("back-reference %s %s: %w", entity.KindOrder, order, err)
		}
		o.Customer = customer.Int()
		if _, err := s.repos.Orders.Put(ctx, o); err != nil {
			return fmt.Errorf("store %s %s: %w", entity.KindOrder, order, err)
		}
		st.BackRefs++
		return nil
	}); err != nil {
		return fmt.Errorf("import back-references: %w", err)
	}

	return nil
}

// prepare ensures every index exists, emptying them first when configured to.
func (s *Service) prepare(ctx context.Context) error {
	type index interface {
		Ensure(ctx context.Context) error
		Reset(ctx context.Context) error
	}
	indexes := []struct {
		kind string
		repo index
	}{
		{entity.KindCustomer, s.repos.Customers},
		{entity.KindOrder, s.repos.Orders},
		{entity.KindProduct, s.repos.Products},
		{entity.KindOrderProduct, s.repos.OrderProducts},
	}
	for _, ix := range indexes {
		var err error
		if s.opts.Reset {
			err = ix.repo.Reset(ctx)
		} else {
			err = ix.repo.Ensure(ctx)
		}
		if err != nil {
			return fmt.Errorf("prepare %s index: %w", ix.kind, err)
		}
	}
	return nil
}

// storeEntity routes an imported entity to the repository of its kind.
func (s *Service) storeEntity(ctx context.Context, e importer.Entity) error {
	var err error
	switch e.Shape {
	case entity.KindCustomer:
		err = put(ctx, s.repos.Customers, e)
	case entity.KindOrder:
		err = put(ctx, s.repos.Orders, e)
	case entity.KindProduct:
		err = put(ctx, s.repos.Products, e)
	default:
		return fmt.Errorf("no repository for shape %q", e.Shape)
	}
	if err != nil {
		return fmt.Errorf("store %s %s: %w", e.Shape, e.ID, err)
	}
	return nil
}

func put[T any](ctx context.Context, repo RecordRepository[T], e importer.Entity) error {
	rec, ok := importer.As[T](e)
	if !ok {
		return fmt.Errorf("unexpected record type %T", e.Record)
	}
	_, err := repo.Put(ctx, *rec)
	return err
}
