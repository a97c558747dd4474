package pollen

import "errors"

var (
	// ErrTransport covers DNS, connection, timeout and non-2xx failures.
	ErrTransport = errors.New("transport failure")
	// ErrParse is returned when the feed body is not valid JSON.
	ErrParse = errors.New("parse failure")
	// ErrLookup is returned when the requested sub-region is not in the feed.
	ErrLookup = errors.New("lookup failure")
	// ErrDataShape is returned when an expected field or species is missing.
	ErrDataShape = errors.New("data shape failure")
)

// FailureKind labels why a snapshot is unavailable.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureParse     FailureKind = "parse"
	FailureLookup    FailureKind = "lookup"
	FailureDataShape FailureKind = "data_shape"
	FailureUnknown   FailureKind = "unknown"
)

// KindOf classifies err into a FailureKind. It returns "" for a nil error.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return FailureTransport
	case errors.Is(err, ErrParse):
		return FailureParse
	case errors.Is(err, ErrLookup):
		return FailureLookup
	case errors.Is(err, ErrDataShape):
		return FailureDataShape
	default:
		return FailureUnknown
	}
}
