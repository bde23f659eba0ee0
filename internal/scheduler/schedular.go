package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/metrics"
)

// ErrAlreadyRunning is returned by RunNow while another run is in flight.
var ErrAlreadyRunning = errors.New("refresh already running")

// Refresher is the job the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context, locale i18n.Locale) error
}

type Options struct {
	// Schedule is a cron expression; when empty the job runs every Interval.
	Schedule string
	Interval time.Duration
	Locale   i18n.Locale
	// Timeout bounds a single run.
	Timeout time.Duration
	Metrics *metrics.Metrics
	Clock   clockwork.Clock
}

type Scheduler struct {
	job      Refresher
	logger   *zap.Logger
	metrics  *metrics.Metrics
	clock    clockwork.Clock
	cron     *cron.Cron
	entryID  cron.EntryID
	schedule string
	locale   i18n.Locale
	timeout  time.Duration

	inFlight atomic.Bool

	mu           sync.Mutex
	running      bool
	lastRun      time.Time
	lastDuration time.Duration
	lastError    string
	runs         int
}

func NewScheduler(job Refresher, opts Options, logger *zap.Logger) (*Scheduler, error) {
	schedule := opts.Schedule
	if schedule == "" {
		if opts.Interval <= 0 {
			return nil, fmt.Errorf("scheduler needs a schedule or a positive interval")
		}
		schedule = "@every " + opts.Interval.String()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	locale := opts.Locale
	if locale == "" {
		locale = i18n.Reference
	}

	cronLogger := cronLogger{logger.Sugar()}
	s := &Scheduler{
		job:      job,
		logger:   logger,
		metrics:  opts.Metrics,
		clock:    clock,
		schedule: schedule,
		locale:   locale,
		timeout:  timeout,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	id, err := s.cron.AddFunc(schedule, s.runFetch)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	s.entryID = id
	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next))

	// Run immediately on start
	go s.runFetch()
}

func (s *Scheduler) runFetch() {
	if err := s.RunNow(context.Background()); errors.Is(err, ErrAlreadyRunning) {
		s.logger.Debug("Skipping refresh, previous run still in flight")
	}
}

// RunNow performs one refresh synchronously. Overlapping runs are rejected
// with ErrAlreadyRunning.
func (s *Scheduler) RunNow(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.ObserveSchedulerRun("skipped")
		return ErrAlreadyRunning
	}
	defer s.inFlight.Store(false)

	startTime := s.clock.Now()
	s.logger.Info("Starting scheduled weather refresh",
		zap.Time("start_time", startTime),
		zap.String("locale", string(s.locale)))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.job.Refresh(ctx, s.locale)
	duration := s.clock.Since(startTime)

	s.mu.Lock()
	s.lastRun = startTime
	s.lastDuration = duration
	s.runs++
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.ObserveSchedulerRun("error")
		s.logger.Error("Scheduled weather refresh failed",
			zap.Error(err),
			zap.Duration("duration", duration))
		return err
	}
	s.metrics.ObserveSchedulerRun("success")
	s.logger.Info("Scheduled weather refresh completed",
		zap.Duration("duration", duration))
	return nil
}

// Stop halts the cron loop and waits for a scheduled run in progress.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// ForceRun starts a refresh in the background.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering weather refresh")
	go s.runFetch()
}

type Status struct {
	Running      bool      `json:"running"`
	InFlight     bool      `json:"in_flight"`
	Schedule     string    `json:"schedule"`
	Locale       string    `json:"locale"`
	LastRun      time.Time `json:"last_run"`
	NextRun      time.Time `json:"next_run"`
	LastDuration string    `json:"last_duration"`
	LastError    string    `json:"last_error,omitempty"`
	Runs         int       `json:"runs"`
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running:      s.running,
		InFlight:     s.inFlight.Load(),
		Schedule:     s.schedule,
		Locale:       string(s.locale),
		LastRun:      s.lastRun,
		LastDuration: s.lastDuration.String(),
		LastError:    s.lastError,
		Runs:         s.runs,
	}
	if s.running {
		st.NextRun = s.cron.Entry(s.entryID).Next
	}
	return st
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
