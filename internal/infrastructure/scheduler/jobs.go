package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// OverdueInvoiceJobName flags pending invoices past their due date
	OverdueInvoiceJobName = "overdue_invoices"
	// ExpiredEntryPurgeJobName drops expired OTPs and revoked tokens held in memory
	ExpiredEntryPurgeJobName = "expired_entry_purge"

	DefaultOverdueInvoiceSchedule = "@hourly"
	DefaultPurgeSchedule          = "*/5 * * * *"
)

// OverdueMarker flags overdue invoices and returns how many changed
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int, error)
}

// OverdueInvoiceJob runs the overdue-invoice sweep
type OverdueInvoiceJob struct {
	marker OverdueMarker
	logger *zap.Logger
}

// NewOverdueInvoiceJob creates the sweep job
func NewOverdueInvoiceJob(marker OverdueMarker, logger *zap.Logger) *OverdueInvoiceJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueInvoiceJob{marker: marker, logger: logger}
}

func (j *OverdueInvoiceJob) Name() string { return OverdueInvoiceJobName }

// Run implements Job
func (j *OverdueInvoiceJob) Run(ctx context.Context) error {
	n, err := j.marker.MarkOverdue(ctx)
	if err != nil {
		return err
	}
	j.logger.Debug("Overdue sweep finished", zap.Int("marked", n))
	return nil
}

// Purger drops entries expired at now
type Purger interface {
	Purge(now time.Time) int
}

// ExpiredEntryPurgeJob purges in-memory stores. Redis expires keys itself,
// so the job only has work when the in-memory fallback is active.
type ExpiredEntryPurgeJob struct {
	purgers []Purger
	now     func() time.Time
	logger  *zap.Logger
}

// NewExpiredEntryPurgeJob creates the purge job; nil purgers are ignored
func NewExpiredEntryPurgeJob(logger *zap.Logger, purgers ...Purger) *ExpiredEntryPurgeJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &ExpiredEntryPurgeJob{now: time.Now, logger: logger}
	for _, p := range purgers {
		if p != nil {
			j.purgers = append(j.purgers, p)
		}
	}
	return j
}

func (j *ExpiredEntryPurgeJob) Name() string { return ExpiredEntryPurgeJobName }

// Run implements Job
func (j *ExpiredEntryPurgeJob) Run(ctx context.Context) error {
	now := j.now()
	removed := 0
	for _, p := range j.purgers {
		if err := ctx.Err(); err != nil {
			return err
		}
		removed += p.Purge(now)
	}
	if removed > 0 {
		j.logger.Debug("Expired entries purged", zap.Int("removed", removed))
	}
	return nil
}
