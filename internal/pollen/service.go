package pollen

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrNoSnapshot is returned when a sensor exists but has not refreshed yet.
var ErrNoSnapshot = errors.New("sensor has no snapshot yet")

// Service orchestrates refreshing sensors and publishing their entities.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

// NewService creates a new Service. publisher may be nil.
func NewService(store Store, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// AddSensor registers a sensor with the underlying store.
func (s *Service) AddSensor(sensor *Sensor) error {
	return s.store.Register(sensor)
}

// RefreshAll refreshes every registered sensor concurrently and waits for all
// of them. Each sensor fetches the feed independently.
func (s *Service) RefreshAll(ctx context.Context) {
	sensors := s.store.All()
	if len(sensors) == 0 {
		s.logger.Warn("no sensors registered; nothing to refresh")
		return
	}

	var wg sync.WaitGroup
	for _, sensor := range sensors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.refresh(ctx, sensor)
		}()
	}
	wg.Wait()
}

func (s *Service) refresh(ctx context.Context, sensor *Sensor) {
	if _, updated := sensor.Refresh(ctx); !updated || s.publisher == nil {
		return
	}

	entity, ok := sensor.Entity()
	if !ok {
		return
	}
	if err := s.publisher.Publish(ctx, entity); err != nil {
		s.logger.Warn("publish entity failed", "entity", entity.Name, "error", err)
	}
}

// Entity returns the rendered entity for key.
func (s *Service) Entity(key Key) (Entity, error) {
	sensor, err := s.store.Get(key)
	if err != nil {
		return Entity{}, err
	}
	entity, ok := sensor.Entity()
	if !ok {
		return Entity{}, ErrNoSnapshot
	}
	return entity, nil
}

// Entities returns the rendered entities of all sensors that have a snapshot.
func (s *Service) Entities() []Entity {
	sensors := s.store.All()
	entities := make([]Entity, 0, len(sensors))
	for _, sensor := range sensors {
		if e, ok := sensor.Entity(); ok {
			entities = append(entities, e)
		}
	}
	return entities
}
