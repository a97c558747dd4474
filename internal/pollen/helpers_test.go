package pollen

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	testPartregionID = 112
	testRegionName   = "Bayern"
	testPartregion   = "Allgäu/Oberbayern/Bay. Wald"
)

var berlin = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// fullPollen returns every known species with band on all three days.
func fullPollen(band string) map[string]map[string]string {
	pollen := make(map[string]map[string]string)
	for _, c := range Categories {
		for _, species := range Species(c) {
			pollen[species] = map[string]string{
				DayToday:         band,
				DayTomorrow:      band,
				DayAfterTomorrow: band,
			}
		}
	}
	return pollen
}

func testDocument(lastUpdate string, pollen map[string]map[string]string) Document {
	return Document{
		Sender:     "Deutscher Wetterdienst - Medizin-Meteorologie",
		Name:       "Pollenflug-Gefahrenindex für Deutschland ausgegeben vom Deutschen Wetterdienst",
		LastUpdate: lastUpdate,
		NextUpdate: "2024-04-27 11:00 Uhr",
		Content: []SubRegionForecast{
			{
				RegionID:       10,
				RegionName:     "Schleswig-Holstein und Hamburg",
				PartregionID:   11,
				PartregionName: "Inseln und Marschen",
				Pollen:         fullPollen("0"),
			},
			{
				RegionID:       110,
				RegionName:     testRegionName,
				PartregionID:   testPartregionID,
				PartregionName: testPartregion,
				Pollen:         pollen,
			},
		},
	}
}

// stubFetcher returns a fixed document or error and counts calls.
type stubFetcher struct {
	doc   Document
	err   error
	calls atomic.Int32

	// block, when set, is received from before returning.
	block chan struct{}
}

func (f *stubFetcher) Fetch(ctx context.Context) (Document, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return Document{}, ctx.Err()
		}
	}
	return f.doc, f.err
}
