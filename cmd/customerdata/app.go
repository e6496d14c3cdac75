package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/customerdata/internal/config"
	dbRedis "github.com/kailas-cloud/customerdata/internal/db/redis"
	"github.com/kailas-cloud/customerdata/internal/domain/entity"
	logpkg "github.com/kailas-cloud/customerdata/internal/logger"
	"github.com/kailas-cloud/customerdata/internal/metrics"
	"github.com/kailas-cloud/customerdata/internal/repository/record"
	statusrepo "github.com/kailas-cloud/customerdata/internal/repository/status"
	"github.com/kailas-cloud/customerdata/internal/version"
)

// app is the composition root shared by all subcommands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  *dbRedis.Store

	customers     *record.Repo[entity.Customer]
	orders        *record.Repo[entity.Order]
	products      *record.Repo[entity.Product]
	orderProducts *record.Repo[entity.OrderProduct]
	status        *statusrepo.Store
}

// newApp loads the configuration, connects to Redis and builds the repositories.
func newApp(ctx context.Context, command string) (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting customerdata",
		zap.String("command", command),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create database store: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger, store: store}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	// Register import metrics explicitly (no init())
	metrics.RegisterImportMetrics()

	if err := a.buildRepos(); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) buildRepos() error {
	prefix := a.cfg.Storage.KeyPrefix
	var err error

	if a.customers, err = record.New[entity.Customer](
		a.store, prefix, entity.CustomersIndex, entity.CustomerShape); err != nil {
		return fmt.Errorf("customers repository: %w", err)
	}
	if a.orders, err = record.New[entity.Order](
		a.store, prefix, entity.OrdersIndex, entity.OrderShape); err != nil {
		return fmt.Errorf("orders repository: %w", err)
	}
	if a.products, err = record.New[entity.Product](
		a.store, prefix, entity.ProductsIndex, entity.ProductShape); err != nil {
		return fmt.Errorf("products repository: %w", err)
	}
	if a.orderProducts, err = record.New[entity.OrderProduct](
		a.store, prefix, entity.OrderProductsIndex, entity.OrderProductShape); err != nil {
		return fmt.Errorf("order-products repository: %w", err)
	}
	a.status = statusrepo.New(a.store, prefix)
	return nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}
