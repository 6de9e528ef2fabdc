package maprender

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"apagon-map/internal/models"
)

func testSector(status models.PowerStatus) models.Sector {
	return models.Sector{
		ID:     7,
		Name:   "Naco",
		Status: status,
		GeoJSON: models.GeoJSON{
			Type: "Polygon",
			Coordinates: [][]float64{
				{18.48612, -69.93121},
				{18.49001, -69.92800},
				{18.49230, -69.93500},
			},
		},
	}
}

func TestStatusColor_Exhaustive(t *testing.T) {
	assert.Equal(t, ColorNoPower, StatusColor(models.NoPower))
	assert.Equal(t, ColorPower, StatusColor(models.Power))
}

func TestRender_PolygonColorPerStatus(t *testing.T) {
	page, err := Render(Params{
		FallbackLat: 18.4861,
		FallbackLng: -69.9312,
		Sectors:     []models.Sector{testSector(models.NoPower)},
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})

	assert.NoError(t, err)
	assert.Contains(t, page, `"color":"red"`)
	assert.NotContains(t, page, `"color":"green"`)
}

func TestRender_PowerSectorIsGreen(t *testing.T) {
	page, err := Render(Params{
		FallbackLat: 18.4861,
		FallbackLng: -69.9312,
		Sectors:     []models.Sector{testSector(models.Power)},
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})

	assert.NoError(t, err)
	assert.Contains(t, page, `"color":"green"`)
}

func TestRender_NoPositionUsesFallback(t *testing.T) {
	page, err := Render(Params{
		FallbackLat: 18.4861,
		FallbackLng: -69.9312,
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})

	assert.NoError(t, err)
	assert.Contains(t, page, "var position = null")
	assert.Contains(t, page, "18.4861")
	assert.Contains(t, page, "-69.9312")
}

func TestRender_WithPositionDrawsMarker(t *testing.T) {
	page, err := Render(Params{
		Position:    &Position{Lat: 18.5, Lng: -69.9, Accuracy: 12},
		FallbackLat: 18.4861,
		FallbackLng: -69.9312,
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})

	assert.NoError(t, err)
	assert.Contains(t, page, `"accuracy":12`)
	assert.Contains(t, page, "circleMarker")
}

func TestRender_EmptyRingSectorIsSkippedClientSide(t *testing.T) {
	sector := testSector(models.Power)
	sector.GeoJSON.Coordinates = nil

	page, err := Render(Params{
		FallbackLat: 18.4861,
		FallbackLng: -69.9312,
		Sectors:     []models.Sector{sector},
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})

	// The page must still render; the script guards empty coords.
	assert.NoError(t, err)
	assert.Contains(t, page, `"coords":[]`)
	assert.Contains(t, page, "if (!sector.coords.length) return;")
}

func TestRender_BridgeWiring(t *testing.T) {
	page, err := Render(Params{
		FallbackLat: 18.4861,
		FallbackLng: -69.9312,
		Sectors:     []models.Sector{testSector(models.Power)},
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})

	assert.NoError(t, err)
	assert.Contains(t, page, "REPORT_CLICK")
	assert.Contains(t, page, "SECTOR_STATS_CLICK")
	assert.Contains(t, page, "CENTER_MAP")
	assert.Contains(t, page, "addMarker")
	assert.Contains(t, page, "stopPropagation")
	// One fetch target per bridge direction.
	assert.Equal(t, 1, strings.Count(page, "/api/bridge/events"))
	assert.Equal(t, 1, strings.Count(page, "/api/bridge/commands"))
}
