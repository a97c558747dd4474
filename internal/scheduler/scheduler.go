package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/dwd-pollen/internal/observability"
)

// Refresher is the work the scheduler triggers on every tick.
type Refresher interface {
	RefreshAll(ctx context.Context)
}

// jobTimeout bounds one tick; each feed request has its own shorter timeout.
const jobTimeout = 30 * time.Second

// Scheduler periodically asks all sensors to refresh. Sensors throttle
// themselves, so the interval only controls how soon a due refresh happens.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a new Scheduler.
func New(interval time.Duration, refresher Refresher, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// Never start a tick while the previous one is still running.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started", "interval", interval)
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debug("scheduler: running refresh job")
	s.metrics.SchedulerRuns.Inc()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.refresher.RefreshAll(ctx)
	s.logger.Debug("scheduler: completed refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
