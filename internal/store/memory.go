package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/i474232898/dwd-pollen/internal/pollen"
)

var (
	// ErrNotFound is returned when no sensor is registered for a key.
	ErrNotFound = errors.New("no sensor for partregion and category")
	// ErrDuplicate is returned when a key is registered twice.
	ErrDuplicate = errors.New("sensor already registered")
)

// MemoryStore is a concurrency-safe in-memory index of pollen sensors.
// Only the sensors are kept; each sensor owns its latest snapshot.
type MemoryStore struct {
	mu sync.RWMutex

	// key: pollen.Key.String()
	sensors map[string]*pollen.Sensor
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sensors: make(map[string]*pollen.Sensor),
	}
}

// Register adds a sensor under its key.
func (s *MemoryStore) Register(sensor *pollen.Sensor) error {
	key := sensor.Key().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sensors[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, key)
	}
	s.sensors[key] = sensor
	return nil
}

// Get returns the sensor registered for key.
func (s *MemoryStore) Get(key pollen.Key) (*pollen.Sensor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sensor, ok := s.sensors[key.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return sensor, nil
}

// All returns every registered sensor ordered by partregion, then category.
func (s *MemoryStore) All() []*pollen.Sensor {
	s.mu.RLock()
	result := make([]*pollen.Sensor, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		result = append(result, sensor)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Key(), result[j].Key()
		if a.PartregionID != b.PartregionID {
			return a.PartregionID < b.PartregionID
		}
		return a.Category < b.Category
	})
	return result
}
