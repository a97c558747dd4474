package pollen

import "context"

// Fetcher retrieves one copy of the pollen feed. Errors wrap ErrTransport,
// ErrParse or ErrDataShape.
type Fetcher interface {
	Fetch(ctx context.Context) (Document, error)
}

// Store is the contract the in-memory sensor index must satisfy.
type Store interface {
	Register(s *Sensor) error
	Get(key Key) (*Sensor, error)
	All() []*Sensor
}

// Publisher pushes a rendered entity to an external consumer after refresh.
type Publisher interface {
	Publish(ctx context.Context, e Entity) error
}
