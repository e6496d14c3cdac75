package customerdata

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs            []string
	password         string
	readinessTimeout time.Duration

	keyPrefix string
	namespace string
	reset     bool

	defaultPageSize int
	maxPageSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithReadinessTimeout bounds the initial wait for the database.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithKeyPrefix sets the prefix of every key and index name.
// Default: "customerdata:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithNamespace restricts imports to elements in the given XML namespace.
func WithNamespace(ns string) Option {
	return optionFunc(func(c *clientConfig) {
		c.namespace = ns
	})
}

// WithReset makes every import drop the existing records first.
func WithReset() Option {
	return optionFunc(func(c *clientConfig) {
		c.reset = true
	})
}

// WithPagination sets the default and maximum number of records per query.
// Defaults: 20 and 100.
func WithPagination(defaultPageSize, maxPageSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultPageSize
		c.maxPageSize = maxPageSize
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
