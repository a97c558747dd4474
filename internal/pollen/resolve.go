package pollen

import (
	"fmt"
	"time"
)

// FindPartregion returns the first sub-region whose id matches.
func FindPartregion(content []SubRegionForecast, partregionID int) (SubRegionForecast, error) {
	for _, r := range content {
		if r.PartregionID == partregionID {
			return r, nil
		}
	}
	return SubRegionForecast{}, fmt.Errorf("%w: partregion %d not in feed", ErrLookup, partregionID)
}

// ParseTimestamp parses a feed timestamp such as "2024-04-26 11:00 Uhr" in loc.
func ParseTimestamp(field, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s missing", ErrDataShape, field)
	}
	ts, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q: %v", ErrDataShape, field, value, err)
	}
	return ts, nil
}

// DayKeyFor picks the forecast day that applies at now for a feed published
// at lastUpdate. Dates are compared in now's location. It returns false when
// the feed is more than two days old or dated in the future.
func DayKeyFor(lastUpdate, now time.Time) (string, bool) {
	switch daysBetween(lastUpdate.In(now.Location()), now) {
	case 0:
		return DayToday, true
	case 1:
		return DayTomorrow, true
	case 2:
		return DayAfterTomorrow, true
	default:
		return "", false
	}
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Resolve computes the exposure snapshot for one sub-region and category.
// It is a pure function of its inputs; feed timestamps are interpreted in
// now's location.
func Resolve(doc Document, partregionID int, c Category, now time.Time) (Snapshot, error) {
	region, err := FindPartregion(doc.Content, partregionID)
	if err != nil {
		return Snapshot{}, err
	}

	lastUpdate, err := ParseTimestamp("last_update", doc.LastUpdate, now.Location())
	if err != nil {
		return Snapshot{}, err
	}
	nextUpdate, err := ParseTimestamp("next_update", doc.NextUpdate, now.Location())
	if err != nil {
		return Snapshot{}, err
	}

	level := LevelUnknown
	if day, ok := DayKeyFor(lastUpdate, now); ok {
		if region.Pollen == nil {
			return Snapshot{}, fmt.Errorf("%w: Pollen missing for partregion %d", ErrDataShape, partregionID)
		}
		level, err = CategoryLevel(region.Pollen, c, day)
		if err != nil {
			return Snapshot{}, fmt.Errorf("partregion %d category %s: %w", partregionID, c, err)
		}
	}

	return Snapshot{
		PartregionID:   partregionID,
		Category:       c,
		Level:          level,
		Percentage:     Percentage(level),
		Description:    Description(level),
		LastUpdate:     lastUpdate,
		NextUpdate:     nextUpdate,
		RegionName:     region.RegionName,
		PartregionName: region.PartregionName,
	}, nil
}
