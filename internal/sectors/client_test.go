package sectors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apagon-map/internal/models"
)

// sectorListing is a realistic backend payload: geojson is a JSON-encoded
// string, coordinates are [lng, lat].
const sectorListing = `[
  {
    "id": 7,
    "name": "Naco",
    "status": "NO_POWER",
    "geojson": "{\"type\":\"Polygon\",\"coordinates\":[[[-69.93121,18.48612],[-69.92800,18.49001],[-69.93500,18.49230]]]}"
  },
  {
    "id": 8,
    "name": "Piantini",
    "status": "POWER",
    "geojson": "{\"type\":\"Polygon\",\"coordinates\":[]}"
  }
]`

func TestGetSectors_ParsesAndNormalizes(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/sectors", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sectorListing))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	sectors, err := client.GetSectors(context.Background(), "tok123")

	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, "Bearer tok123", gotAuth)

	naco := sectors[0]
	assert.Equal(t, int64(7), naco.ID)
	assert.Equal(t, models.NoPower, naco.Status)
	// Outer ring only, swapped to [lat, lng].
	assert.Equal(t, [][]float64{
		{18.48612, -69.93121},
		{18.49001, -69.92800},
		{18.49230, -69.93500},
	}, naco.GeoJSON.Coordinates)

	// A sector with no rings normalizes to an empty (renderable) geometry.
	assert.Empty(t, sectors[1].GeoJSON.Coordinates)
}

func TestGetSectors_BadGeoJSONString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"x","status":"POWER","geojson":"{not json"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetSectors(context.Background(), "tok")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse geojson for sector 1")
}

func TestGetSectorUptime_DerivedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sectors/histories/7/uptime", r.URL.Path)
		assert.Equal(t, "2026-08-01T00:00:00", r.URL.Query().Get("start"))
		_ = json.NewEncoder(w).Encode(models.SectorUptimeHistory{
			Start:      "2026-08-01T00:00:00",
			End:        "2026-08-05T04:00:00",
			Percentage: 85,
			PowerHours: 85,
			TotalHours: 100,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	history, err := client.GetSectorUptime(context.Background(), "tok", 7, "2026-08-01T00:00:00", "2026-08-05T04:00:00")

	require.NoError(t, err)
	assert.Equal(t, float64(85), history.Percentage)
	assert.Equal(t, float64(15), history.DowntimeHours())
}

func TestGetSectorUptime_RejectsInconsistentAggregate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.SectorUptimeHistory{
			Percentage: 120,
			PowerHours: 120,
			TotalHours: 100,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetSectorUptime(context.Background(), "tok", 7, "a", "b")

	assert.ErrorIs(t, err, ErrInvalidUptime)
}

func TestGetCurrentSector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sectors/current", r.URL.Path)
		assert.Equal(t, "18.48612", r.URL.Query().Get("lat"))
		assert.Equal(t, "-69.93121", r.URL.Query().Get("lon"))
		_ = json.NewEncoder(w).Encode(models.Sector{ID: 7, Name: "Naco", Status: models.NoPower})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	sector, err := client.GetCurrentSector(context.Background(), "tok", 18.48612, -69.93121)

	require.NoError(t, err)
	assert.Equal(t, "Naco", sector.Name)
}

func TestGetSectors_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetSectors(context.Background(), "tok")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend returned 500")
}
