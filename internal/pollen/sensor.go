package pollen

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/i474232898/dwd-pollen/internal/observability"
)

// DefaultThrottle is the minimum time between two completed refreshes.
const DefaultThrottle = 60 * time.Minute

// SensorConfig describes one configured sensor.
type SensorConfig struct {
	DisplayName string
	Key         Key
	Throttle    time.Duration
	Location    *time.Location
}

// SensorOption customizes a Sensor.
type SensorOption func(*Sensor)

// WithClock swaps the sensor's time source, mainly for tests.
func WithClock(c clockwork.Clock) SensorOption {
	return func(s *Sensor) {
		s.clock = c
	}
}

// Sensor owns the latest snapshot for one (partregion, category) pair.
// Refresh is throttled and non-reentrant; readers always observe a complete
// snapshot.
type Sensor struct {
	name    string
	key     Key
	loc     *time.Location
	fetcher Fetcher
	clock   clockwork.Clock
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *observability.Metrics

	// mu is held for the duration of a refresh.
	mu          sync.Mutex
	snapshot    atomic.Pointer[Snapshot]
	lastRefresh atomic.Time
}

// NewSensor creates a Sensor. Zero Throttle and nil Location fall back to
// DefaultThrottle and UTC.
func NewSensor(cfg SensorConfig, fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics, opts ...SensorOption) *Sensor {
	throttle := cfg.Throttle
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	name := cfg.DisplayName
	if name == "" {
		name = DefaultName
	}

	s := &Sensor{
		name:    name,
		key:     cfg.Key,
		loc:     loc,
		fetcher: fetcher,
		clock:   clockwork.NewRealClock(),
		limiter: rate.NewLimiter(rate.Every(throttle), 1),
		logger: logger.With(
			"partregion_id", cfg.Key.PartregionID,
			"category", string(cfg.Key.Category),
		),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the sensor's (partregion, category) pair.
func (s *Sensor) Key() Key {
	return s.key
}

// Name returns the entity name, e.g. "DWD Pollen 112 tree".
func (s *Sensor) Name() string {
	return EntityName(s.name, s.key)
}

// Snapshot returns the latest snapshot and false if none has been produced yet.
func (s *Sensor) Snapshot() (Snapshot, bool) {
	p := s.snapshot.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return *p, true
}

// Entity renders the latest snapshot.
func (s *Sensor) Entity() (Entity, bool) {
	snap, ok := s.Snapshot()
	if !ok {
		return Entity{}, false
	}
	return Render(s.name, snap), true
}

// LastRefresh returns when the last refresh completed, or the zero time.
func (s *Sensor) LastRefresh() time.Time {
	return s.lastRefresh.Load()
}

// Refresh fetches and resolves a new snapshot unless a refresh is already in
// flight or the previous one completed less than the throttle interval ago.
// It reports whether a new snapshot was stored. Failures never escape: they
// are logged and stored as an unavailable snapshot.
func (s *Sensor) Refresh(ctx context.Context) (Snapshot, bool) {
	if !s.mu.TryLock() {
		s.metrics.RefreshTotal.WithLabelValues("busy").Inc()
		s.logger.Debug("refresh already in progress")
		snap, _ := s.Snapshot()
		return snap, false
	}
	defer s.mu.Unlock()

	if s.limiter.TokensAt(s.clock.Now()) < 1 {
		s.metrics.RefreshTotal.WithLabelValues("throttled").Inc()
		s.logger.Debug("refresh throttled", "last_refresh", s.LastRefresh())
		snap, _ := s.Snapshot()
		return snap, false
	}

	snap := s.resolve(ctx)
	s.snapshot.Store(&snap)

	done := s.clock.Now()
	s.limiter.AllowN(done, 1)
	s.lastRefresh.Store(done)

	s.metrics.RefreshTotal.WithLabelValues("refreshed").Inc()
	s.metrics.ExposureLevel.
		WithLabelValues(strconv.Itoa(s.key.PartregionID), string(s.key.Category)).
		Set(float64(snap.Level))

	return snap, true
}

func (s *Sensor) resolve(ctx context.Context) Snapshot {
	doc, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return s.fail("fetch", err)
	}

	now := s.clock.Now().In(s.loc)
	snap, err := Resolve(doc, s.key.PartregionID, s.key.Category, now)
	if err != nil {
		return s.fail("resolve", err)
	}

	s.logger.Info("exposure resolved",
		"level", snap.Level,
		"description", snap.Description,
		"last_update", snap.LastUpdate,
	)
	return snap
}

func (s *Sensor) fail(stage string, err error) Snapshot {
	kind := KindOf(err)
	s.metrics.RefreshFailures.WithLabelValues(string(kind)).Inc()
	s.logger.Error("refresh failed, no data this cycle",
		"stage", stage,
		"kind", string(kind),
		"error", err,
	)
	return Unavailable(s.key, kind)
}
