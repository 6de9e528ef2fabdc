package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent_ReportClick(t *testing.T) {
	raw := []byte(`{"type":"REPORT_CLICK","coords":{"lat":18.48612,"lng":-69.93121}}`)

	event, err := DecodeEvent(raw)

	assert.NoError(t, err)
	assert.Equal(t, EventReportClick, event.Type)
	assert.Equal(t, 18.48612, event.Coords.Lat)
	assert.Equal(t, -69.93121, event.Coords.Lng)
}

func TestDecodeEvent_StatsClick(t *testing.T) {
	raw := []byte(`{"type":"SECTOR_STATS_CLICK","sectorId":7,"sectorName":"Naco"}`)

	event, err := DecodeEvent(raw)

	assert.NoError(t, err)
	assert.Equal(t, EventStatsClick, event.Type)
	assert.Equal(t, int64(7), event.SectorID)
	assert.Equal(t, "Naco", event.SectorName)
}

func TestDecodeEvent_LegacyMapClick(t *testing.T) {
	raw := []byte(`{"type":"MAP_CLICK","coords":{"lat":18.5,"lng":-69.9}}`)

	event, err := DecodeEvent(raw)

	assert.NoError(t, err)
	assert.Equal(t, EventMapClick, event.Type)
}

func TestDecodeEvent_MalformedJSON(t *testing.T) {
	_, err := DecodeEvent([]byte(`{not json at all`))

	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeEvent_MissingCoords(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"REPORT_CLICK"}`))

	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeEvent_MissingSectorIdentity(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"SECTOR_STATS_CLICK","sectorName":"Naco"}`))

	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeEvent_UnknownType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"TELEPORT","coords":{"lat":1,"lng":2}}`))

	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDecodeEvent_MissingType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"coords":{"lat":1,"lng":2}}`))

	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeCommand_CenterMap(t *testing.T) {
	data, err := EncodeCommand(CenterMap(18.48612, -69.93121))

	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, CommandCenterMap, decoded["action"])
	assert.Equal(t, 18.48612, decoded["lat"])
	assert.Equal(t, -69.93121, decoded["lng"])
}

func TestEncodeCommand_AddMarker(t *testing.T) {
	data, err := EncodeCommand(AddMarker(18.5, -69.9, "Reporte aquí"))

	assert.NoError(t, err)

	var decoded Command
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, CommandAddMarker, decoded.Action)
	assert.Equal(t, "Reporte aquí", decoded.Text)
}

func TestEncodeCommand_UnknownAction(t *testing.T) {
	_, err := EncodeCommand(Command{Action: "EXPLODE"})

	assert.ErrorIs(t, err, ErrUnknownType)
}
