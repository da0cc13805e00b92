package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls query tracing and metrics
type DBConfig struct {
	TraceEnabled    bool
	DBSystem        string
	LogFullSQL      bool
	SlowQueryThresh time.Duration
}

type startKey struct{}

// DBInstrumentation registers otelgorm plus slow query and duration callbacks
type DBInstrumentation struct {
	config   DBConfig
	logger   *zap.Logger
	duration *Histogram
}

// NewDBInstrumentation creates the instrumentation. meter may come from a
// disabled provider, in which case durations go to the no-op meter.
func NewDBInstrumentation(cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBInstrumentation, error) {
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h, err := NewHistogram(meter, "db.query.duration", "Database query duration", "s", DBDurationBuckets)
	if err != nil {
		return nil, err
	}
	return &DBInstrumentation{config: cfg, logger: logger, duration: h}, nil
}

// Register installs the callbacks on db
func (d *DBInstrumentation) Register(db *gorm.DB) error {
	if d.config.TraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(d.config.DBSystem)}
		if !d.config.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	cb := db.Callback()
	before := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("metrics:before_create", d.before) },
		func() error { return cb.Query().Before("gorm:query").Register("metrics:before_query", d.before) },
		func() error { return cb.Update().Before("gorm:update").Register("metrics:before_update", d.before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("metrics:before_delete", d.before) },
		func() error { return cb.Row().Before("gorm:row").Register("metrics:before_row", d.before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("metrics:before_raw", d.before) },
	}
	after := []func() error{
		func() error { return cb.Create().After("gorm:create").Register("metrics:after_create", d.after("create")) },
		func() error { return cb.Query().After("gorm:query").Register("metrics:after_query", d.after("select")) },
		func() error { return cb.Update().After("gorm:update").Register("metrics:after_update", d.after("update")) },
		func() error { return cb.Delete().After("gorm:delete").Register("metrics:after_delete", d.after("delete")) },
		func() error { return cb.Row().After("gorm:row").Register("metrics:after_row", d.after("row")) },
		func() error { return cb.Raw().After("gorm:raw").Register("metrics:after_raw", d.after("raw")) },
	}
	for _, register := range append(before, after...) {
		if err := register(); err != nil {
			return err
		}
	}

	d.logger.Info("Database instrumentation registered",
		zap.Bool("tracing", d.config.TraceEnabled),
		zap.Duration("slow_query_threshold", d.config.SlowQueryThresh),
	)
	return nil
}

func (d *DBInstrumentation) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, startKey{}, time.Now())
}

func (d *DBInstrumentation) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(startKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		table := db.Statement.Table
		d.duration.RecordDuration(ctx, elapsed, AttrDBOperation.String(operation), AttrDBTable.String(table))

		span := trace.SpanFromContext(ctx)
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) && span.IsRecording() {
			span.RecordError(db.Error)
		}
		if elapsed < d.config.SlowQueryThresh {
			return
		}
		if span.IsRecording() {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
		}
		fields := []zap.Field{
			zap.String("operation", operation),
			zap.String("table", table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", db.Statement.RowsAffected),
		}
		if d.config.LogFullSQL {
			fields = append(fields, zap.String("sql", db.Statement.SQL.String()))
		}
		if traceID := TraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		d.logger.Warn("Slow query", fields...)
	}
}

// RegisterPoolMetrics reports connection pool statistics as observable gauges
func RegisterPoolMetrics(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conns, err := meter.Int64ObservableGauge("db.pool.connections",
		metric.WithDescription("Database connections by state"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db.pool.wait_count",
		metric.WithDescription("Connections waited for"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBPoolState.String("idle")))
		o.ObserveInt64(conns, int64(stats.MaxOpenConnections), metric.WithAttributes(AttrDBPoolState.String("max")))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, waits)
	return err
}
