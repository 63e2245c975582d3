package hashmap

// config.go defines the functional options accepted by New, mirroring the
// sibling cache package's Option[K,V]/applyOptions pattern: a hidden config
// struct, options that only ever capture pointers to external objects, and
// defaults that make metrics and logging no-ops until the caller opts in.
//
// © 2026 lfcore authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Map at construction time.
type Option[K comparable, V any] func(*config[K, V])

type config[K comparable, V any] struct {
	shardCount  int
	bucketCount int
	logger      *zap.Logger
	registry    *prometheus.Registry
}

func defaultConfig[K comparable, V any](shardCount, bucketCount int) *config[K, V] {
	return &config[K, V]{
		shardCount:  shardCount,
		bucketCount: bucketCount,
		logger:      zap.NewNop(),
	}
}

// WithLogger plugs an external zap.Logger. The map never logs on the hot
// path; it logs at debug level only when New finishes construction and when
// Clear runs.
func WithLogger[K comparable, V any](l *zap.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (the default) and the hot path pays nothing for metric updates.
func WithMetrics[K comparable, V any](reg *prometheus.Registry) Option[K, V] {
	return func(c *config[K, V]) {
		c.registry = reg
	}
}

func applyOptions[K comparable, V any](cfg *config[K, V], opts []Option[K, V]) {
	for _, opt := range opts {
		opt(cfg)
	}
}
