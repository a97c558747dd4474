package pollen

import "fmt"

const (
	DefaultName = "DWD Pollen"
	Unit        = "%"
	Icon        = "mdi:flower"
	Attribution = "Data provided by Deutscher Wetterdienst"
)

// Attribute keys of a rendered entity.
const (
	AttrDescription    = "description"
	AttrLastUpdate     = "last_update"
	AttrNextUpdate     = "next_update"
	AttrRegionName     = "region_name"
	AttrPartregionName = "partregion_name"
	AttrAttribution    = "attribution"
)

// Entity is the host-facing view of a sensor: a numeric state in percent plus
// descriptive attributes.
type Entity struct {
	Name         string         `json:"name"`
	PartregionID int            `json:"partregionId"`
	Category     Category       `json:"category"`
	State        *int           `json:"state"`
	Unit         string         `json:"unit"`
	Icon         string         `json:"icon"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// EntityName composes "<display-name> <partregion_id> <category>".
func EntityName(displayName string, key Key) string {
	return fmt.Sprintf("%s %d %s", displayName, key.PartregionID, key.Category)
}

// Render builds the entity for snap. Unavailable snapshots carry neither a
// state nor attributes.
func Render(displayName string, snap Snapshot) Entity {
	key := Key{PartregionID: snap.PartregionID, Category: snap.Category}
	e := Entity{
		Name:         EntityName(displayName, key),
		PartregionID: snap.PartregionID,
		Category:     snap.Category,
		Unit:         Unit,
		Icon:         Icon,
	}
	if !snap.Available() {
		return e
	}

	e.State = snap.Percentage
	e.Attributes = map[string]any{
		AttrDescription:    snap.Description,
		AttrLastUpdate:     snap.LastUpdate,
		AttrNextUpdate:     snap.NextUpdate,
		AttrRegionName:     snap.RegionName,
		AttrPartregionName: snap.PartregionName,
		AttrAttribution:    Attribution,
	}
	return e
}
