// Package bridge defines the JSON message channel between the embedded map
// surface and the hosting screen. Both directions carry small tagged objects:
// events (map → host, tagged by "type") and commands (host → map, tagged by
// "action"). Everything crossing the boundary is validated here; nothing
// malformed leaves this package as anything but an error.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event types delivered by the map surface.
const (
	EventReportClick = "REPORT_CLICK"
	EventStatsClick  = "SECTOR_STATS_CLICK"
	// EventMapClick is the legacy bare-map click tag. Still decoded so old
	// map payloads keep working; routed the same as a report click.
	EventMapClick = "MAP_CLICK"
)

// Command actions accepted by the map surface.
const (
	CommandCenterMap = "CENTER_MAP"
	CommandAddMarker = "addMarker"
)

var (
	// ErrMalformed means the payload was not valid JSON or missed required fields.
	ErrMalformed = errors.New("bridge: malformed message")
	// ErrUnknownType means the tag did not match any known variant.
	ErrUnknownType = errors.New("bridge: unknown message type")
)

// Coords is a latitude/longitude pair as produced by a map click.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is an inbound message from the map surface. Exactly one of the
// payload groups is populated depending on Type.
type Event struct {
	Type       string `json:"type"`
	Coords     Coords `json:"coords"`
	SectorID   int64  `json:"sectorId"`
	SectorName string `json:"sectorName"`
}

// rawEvent keeps payload fields loose so a missing field is detectable
// instead of silently zero.
type rawEvent struct {
	Type       string  `json:"type"`
	Coords     *Coords `json:"coords"`
	SectorID   *int64  `json:"sectorId"`
	SectorName *string `json:"sectorName"`
}

// DecodeEvent parses one inbound bridge message. JSON errors, unknown tags
// and missing payload fields come back as ErrMalformed/ErrUnknownType; the
// caller is expected to log and drop, never to crash.
func DecodeEvent(data []byte) (*Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch raw.Type {
	case EventReportClick, EventMapClick:
		if raw.Coords == nil {
			return nil, fmt.Errorf("%w: %s without coords", ErrMalformed, raw.Type)
		}
		return &Event{Type: raw.Type, Coords: *raw.Coords}, nil
	case EventStatsClick:
		if raw.SectorID == nil || raw.SectorName == nil {
			return nil, fmt.Errorf("%w: %s without sector identity", ErrMalformed, raw.Type)
		}
		return &Event{Type: EventStatsClick, SectorID: *raw.SectorID, SectorName: *raw.SectorName}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type tag", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, raw.Type)
	}
}

// Command is an outbound host → map message.
type Command struct {
	Action string  `json:"action"`
	Lat    float64 `json:"lat,omitempty"`
	Lng    float64 `json:"lng,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// CenterMap builds the command that smoothly pans the map to a point.
func CenterMap(lat, lng float64) Command {
	return Command{Action: CommandCenterMap, Lat: lat, Lng: lng}
}

// AddMarker builds the command that places a labelled marker.
func AddMarker(lat, lng float64, text string) Command {
	return Command{Action: CommandAddMarker, Lat: lat, Lng: lng, Text: text}
}

// EncodeCommand serializes a command for delivery to the map surface.
func EncodeCommand(cmd Command) ([]byte, error) {
	if cmd.Action != CommandCenterMap && cmd.Action != CommandAddMarker {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cmd.Action)
	}
	return json.Marshal(cmd)
}
