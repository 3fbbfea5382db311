package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolMetric pairs a metric descriptor with the pgxpool.Stat accessor
// that produces its value.
type poolMetric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(*pgxpool.Stat) float64
}

// PoolStatsCollector exports pgxpool.Stat as Prometheus metrics, one
// sample per scrape, labelled by service.
type PoolStatsCollector struct {
	pool    *pgxpool.Pool
	service string
	metrics []poolMetric
}

func newPoolDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(name, help, []string{"service"}, nil)
}

// NewPoolStatsCollector builds a collector over pool's live statistics.
func NewPoolStatsCollector(pool *pgxpool.Pool, service string) *PoolStatsCollector {
	gauge := prometheus.GaugeValue
	counter := prometheus.CounterValue

	return &PoolStatsCollector{
		pool:    pool,
		service: service,
		metrics: []poolMetric{
			{newPoolDesc("db_pool_acquired_connections", "Number of currently acquired connections"),
				gauge, func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
			{newPoolDesc("db_pool_idle_connections", "Number of currently idle connections"),
				gauge, func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
			{newPoolDesc("db_pool_total_connections", "Total number of connections in the pool"),
				gauge, func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
			{newPoolDesc("db_pool_max_connections", "Maximum number of connections allowed"),
				gauge, func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
			{newPoolDesc("db_pool_constructing_connections", "Number of connections currently being constructed"),
				gauge, func(s *pgxpool.Stat) float64 { return float64(s.ConstructingConns()) }},
			{newPoolDesc("db_pool_acquire_count_total", "Total number of connection acquires"),
				counter, func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }},
			{newPoolDesc("db_pool_acquire_duration_seconds_total", "Total time spent acquiring connections in seconds"),
				counter, func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }},
			{newPoolDesc("db_pool_canceled_acquire_count_total", "Total number of canceled connection acquires"),
				counter, func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) }},
			{newPoolDesc("db_pool_empty_acquire_count_total", "Total number of acquires that had to wait for a connection"),
				counter, func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }},
			{newPoolDesc("db_pool_new_connections_total", "Total number of new connections created"),
				counter, func(s *pgxpool.Stat) float64 { return float64(s.NewConnsCount()) }},
			{newPoolDesc("db_pool_max_lifetime_destroy_total", "Total connections destroyed due to max lifetime"),
				counter, func(s *pgxpool.Stat) float64 { return float64(s.MaxLifetimeDestroyCount()) }},
			{newPoolDesc("db_pool_max_idle_destroy_total", "Total connections destroyed due to max idle time"),
				counter, func(s *pgxpool.Stat) float64 { return float64(s.MaxIdleDestroyCount()) }},
		},
	}
}

// Describe implements prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(stat), c.service)
	}
}

// RegisterPoolMetrics registers a PoolStatsCollector with the default
// registry.
func RegisterPoolMetrics(pool *pgxpool.Pool, service string) {
	prometheus.MustRegister(NewPoolStatsCollector(pool, service))
}
