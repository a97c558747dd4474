package pollen

import (
	"fmt"
	"math"
)

// LevelUnknown is the rank used when no exposure can be determined.
const LevelUnknown = -1

// MaxLevel is the highest rank a band can map to.
const MaxLevel = 6

var speciesByCategory = map[Category][]string{
	CategoryAmbrosia: {"Ambrosia"},
	CategoryGrass:    {"Graeser"},
	CategoryTree:     {"Beifuss", "Birke", "Erle", "Esche", "Hasel", "Roggen"},
}

var bandRanks = map[string]int{
	"0":   0,
	"0-1": 1,
	"1":   2,
	"1-2": 3,
	"2":   4,
	"2-3": 5,
	"3":   6,
}

var descriptions = [MaxLevel + 1]string{
	"no level of exposure",
	"no to low level of exposure",
	"low level of exposure",
	"low to medium level of exposure",
	"medium level of exposure",
	"medium to high level exposure",
	"high level of exposure",
}

const unknownDescription = "unknown level of exposure"

// Species returns the raw feed species aggregated by c.
func Species(c Category) []string {
	return speciesByCategory[c]
}

// BandRank converts a raw band such as "2-3" to its rank, or LevelUnknown.
func BandRank(band string) int {
	if r, ok := bandRanks[band]; ok {
		return r
	}
	return LevelUnknown
}

// CategoryLevel returns the worst rank among the species of c for the given
// day key. A species or day key absent from pollen is a data shape error.
func CategoryLevel(pollen map[string]map[string]string, c Category, dayKey string) (int, error) {
	level := LevelUnknown
	for _, species := range Species(c) {
		days, ok := pollen[species]
		if !ok {
			return LevelUnknown, fmt.Errorf("%w: species %q missing", ErrDataShape, species)
		}
		band, ok := days[dayKey]
		if !ok {
			return LevelUnknown, fmt.Errorf("%w: day %q missing for species %q", ErrDataShape, dayKey, species)
		}
		if r := BandRank(band); r > level {
			level = r
		}
	}
	return level, nil
}

// Percentage scales a rank to 0..100. It returns nil for ranks below zero.
func Percentage(level int) *int {
	if level < 0 {
		return nil
	}
	p := int(math.Round(float64(level) / MaxLevel * 100))
	return &p
}

// Description returns the human text for a rank.
func Description(level int) string {
	if level < 0 || level > MaxLevel {
		return unknownDescription
	}
	return descriptions[level]
}
