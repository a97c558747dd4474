package pollen

import (
	"strconv"
	"time"
)

// Category is a user-facing pollen category aggregating one or more species.
type Category string

const (
	CategoryAmbrosia Category = "ambrosia"
	CategoryGrass    Category = "grass"
	CategoryTree     Category = "tree"
)

// Categories lists every supported category in a stable order.
var Categories = []Category{CategoryAmbrosia, CategoryGrass, CategoryTree}

// ParseCategory returns the Category named by s.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Day keys used by the feed for its three forecast days.
const (
	DayToday         = "today"
	DayTomorrow      = "tomorrow"
	DayAfterTomorrow = "dayafter_to"
)

// TimestampLayout is the format of last_update/next_update in the feed.
const TimestampLayout = "2006-01-02 15:04 Uhr"

// Document is the decoded s31fg.json feed. Timestamps are kept raw and
// parsed during resolution.
type Document struct {
	Sender     string              `json:"sender"`
	Name       string              `json:"name"`
	LastUpdate string              `json:"last_update"`
	NextUpdate string              `json:"next_update"`
	Content    []SubRegionForecast `json:"content"`
}

// SubRegionForecast is one geographic sub-region of the feed.
type SubRegionForecast struct {
	RegionID       int    `json:"region_id"`
	RegionName     string `json:"region_name"`
	PartregionID   int    `json:"partregion_id"`
	PartregionName string `json:"partregion_name"`

	// Pollen maps species name -> day key -> raw band, e.g. "Birke" -> "today" -> "2-3".
	Pollen map[string]map[string]string `json:"Pollen"`
}

// Key identifies a sensor: one category within one sub-region.
type Key struct {
	PartregionID int
	Category     Category
}

// String returns a canonical string key for indexing.
func (k Key) String() string {
	return strconv.Itoa(k.PartregionID) + ":" + string(k.Category)
}

// Snapshot is the resolved exposure for one Key. Snapshots are immutable once
// built; sensors replace them wholesale.
type Snapshot struct {
	PartregionID int      `json:"partregionId"`
	Category     Category `json:"category"`

	// Level is the rank 0..6, or -1 when unknown.
	Level          int       `json:"level"`
	Percentage     *int      `json:"percentage,omitempty"`
	Description    string    `json:"description,omitempty"`
	LastUpdate     time.Time `json:"lastUpdate"`
	NextUpdate     time.Time `json:"nextUpdate"`
	RegionName     string    `json:"regionName,omitempty"`
	PartregionName string    `json:"partregionName,omitempty"`

	// Failure is empty for a successful resolution.
	Failure FailureKind `json:"failure,omitempty"`
}

// Available reports whether the snapshot holds data from the feed.
func (s Snapshot) Available() bool {
	return s.Failure == ""
}

// Unavailable builds the "no data this cycle" snapshot for key.
func Unavailable(key Key, kind FailureKind) Snapshot {
	return Snapshot{
		PartregionID: key.PartregionID,
		Category:     key.Category,
		Level:        LevelUnknown,
		Failure:      kind,
	}
}
