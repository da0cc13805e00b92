package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of background work run on a cron schedule
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobState is the last known state of a registered job
type JobState struct {
	Name       string
	Schedule   string
	Status     JobStatus
	LastRunAt  *time.Time
	LastError  string
	NextRunAt  time.Time
	RunCount   int
	ErrorCount int
}

// Config holds scheduler configuration
type Config struct {
	// JobTimeout bounds a single run; zero means no timeout
	JobTimeout time.Duration
	Location   *time.Location
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		JobTimeout: 5 * time.Minute,
		Location:   time.Local,
	}
}

type registered struct {
	job     Job
	entryID cron.EntryID
	state   JobState
}

// Scheduler runs registered jobs on standard five-field cron expressions.
// A run that is still in progress causes the next tick of the same job to
// be skipped.
type Scheduler struct {
	config Config
	logger *zap.Logger
	cron   *cron.Cron
	parser cron.Parser

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	jobs      map[string]*registered
	isRunning bool
}

// New creates a scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	logger = logger.Named("scheduler")
	cronLogger := zapCronLogger{logger: logger}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config: config,
		logger: logger,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*registered),
	}
}

// Register schedules a job. Jobs must be registered before Start.
func (s *Scheduler) Register(spec string, job Job) error {
	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("%w: job %s: %v", ErrInvalidConfig, job.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrSchedulerRunning
	}
	if _, ok := s.jobs[job.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name())
	}

	reg := &registered{
		job:   job,
		state: JobState{Name: job.Name(), Schedule: spec, Status: JobStatusPending},
	}
	reg.entryID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.execute(s.ctx, reg)
	}))
	s.jobs[job.Name()] = reg

	s.logger.Info("Job registered", zap.String("job", job.Name()), zap.String("schedule", spec))
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops scheduling, cancels running jobs and waits for them to return
// or for ctx to be done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a registered job immediately in the caller's goroutine
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	reg, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, reg)
}

// States returns the state of every registered job
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobState, 0, len(s.jobs))
	for _, reg := range s.jobs {
		state := reg.state
		if s.isRunning {
			state.NextRunAt = s.cron.Entry(reg.entryID).Next
		}
		out = append(out, state)
	}
	return out
}

func (s *Scheduler) execute(ctx context.Context, reg *registered) error {
	name := reg.job.Name()
	start := time.Now()

	s.mu.Lock()
	reg.state.Status = JobStatusRunning
	reg.state.LastRunAt = &start
	s.mu.Unlock()

	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	err := reg.job.Run(ctx)
	duration := time.Since(start)

	s.mu.Lock()
	reg.state.RunCount++
	if err != nil {
		reg.state.Status = JobStatusFailed
		reg.state.LastError = err.Error()
		reg.state.ErrorCount++
	} else {
		reg.state.Status = JobStatusSuccess
		reg.state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed", zap.String("job", name), zap.Duration("duration", duration), zap.Error(err))
		return err
	}
	s.logger.Debug("Job completed", zap.String("job", name), zap.Duration("duration", duration))
	return nil
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
