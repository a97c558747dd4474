package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/dwd-pollen/internal/pollen"
	"github.com/i474232898/dwd-pollen/internal/store"
)

type fakeReader struct {
	entities map[pollen.Key]pollen.Entity
	pending  map[pollen.Key]bool
	err      error
}

func (f *fakeReader) Entity(key pollen.Key) (pollen.Entity, error) {
	if f.err != nil {
		return pollen.Entity{}, f.err
	}
	if f.pending[key] {
		return pollen.Entity{}, pollen.ErrNoSnapshot
	}
	e, ok := f.entities[key]
	if !ok {
		return pollen.Entity{}, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeReader) Entities() []pollen.Entity {
	out := make([]pollen.Entity, 0, len(f.entities))
	for _, e := range f.entities {
		out = append(out, e)
	}
	return out
}

func newReader() *fakeReader {
	level := 4
	grass := pollen.Key{PartregionID: 112, Category: pollen.CategoryGrass}
	return &fakeReader{
		entities: map[pollen.Key]pollen.Entity{
			grass: pollen.Render(pollen.DefaultName, pollen.Snapshot{
				PartregionID: 112,
				Category:     pollen.CategoryGrass,
				Level:        level,
				Percentage:   pollen.Percentage(level),
				Description:  pollen.Description(level),
			}),
		},
		pending: map[pollen.Key]bool{
			{PartregionID: 112, Category: pollen.CategoryTree}: true,
		},
	}
}

func doGet(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

// TestSensorPathValidation verifies that malformed partregion ids and unknown
// categories are rejected before the service is consulted.
func TestSensorPathValidation(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newReader())

	for _, path := range []string{
		"/api/v1/sensors/abc/grass",
		"/api/v1/sensors/0/grass",
		"/api/v1/sensors/-3/grass",
		"/api/v1/sensors/112/mold",
		"/api/v1/sensors/112/Grass",
	} {
		status, _ := doGet(t, app, path)
		if status != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusBadRequest, status)
		}
	}
}

func TestGetSensor(t *testing.T) {
	app := NewApp(newReader())

	status, body := doGet(t, app, "/api/v1/sensors/112/grass")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, status, body)
	}

	var entity pollen.Entity
	if err := json.Unmarshal(body, &entity); err != nil {
		t.Fatalf("decode entity: %v", err)
	}
	if entity.Name != "DWD Pollen 112 grass" {
		t.Fatalf("unexpected name %q", entity.Name)
	}
	if entity.State == nil || *entity.State != 67 {
		t.Fatalf("expected state 67, got %v", entity.State)
	}
	if entity.Attributes[pollen.AttrDescription] != "medium level of exposure" {
		t.Fatalf("unexpected description %v", entity.Attributes[pollen.AttrDescription])
	}
}

func TestGetSensorErrors(t *testing.T) {
	tests := []struct {
		name   string
		reader *fakeReader
		path   string
		want   int
	}{
		{"unknown sensor", newReader(), "/api/v1/sensors/41/grass", http.StatusNotFound},
		{"not refreshed yet", newReader(), "/api/v1/sensors/112/tree", http.StatusServiceUnavailable},
		{"unexpected error", &fakeReader{err: errors.New("boom")}, "/api/v1/sensors/112/grass", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp(tt.reader)

			status, body := doGet(t, app, tt.path)
			if status != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, status)
			}

			var payload struct {
				Error   bool   `json:"error"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if !payload.Error || payload.Message == "" {
				t.Fatalf("unexpected error body %s", body)
			}
		})
	}
}

func TestListSensors(t *testing.T) {
	app := NewApp(newReader())

	status, body := doGet(t, app, "/api/v1/sensors")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}

	var payload struct {
		Sensors []pollen.Entity `json:"sensors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Sensors) != 1 {
		t.Fatalf("expected 1 sensor, got %d", len(payload.Sensors))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := NewApp(newReader())

	status, body := doGet(t, app, "/health")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Fatalf("unexpected health body %s", body)
	}

	status, body = doGet(t, app, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("expected Go runtime metrics in /metrics output")
	}
}
