// Package routing turns decoded bridge events into navigation actions. All
// per-screen click handling is consolidated here so the event → screen
// mapping is exhaustive and testable in one place.
package routing

import (
	"log"
	"strconv"
	"sync"

	"apagon-map/internal/bridge"
	"apagon-map/internal/geo"
)

// Screen paths the router can navigate to.
const (
	ScreenReport = "/report"
	ScreenStats  = "/sectors/stats"
)

// Navigation is one routed transition: a target screen plus its string
// parameters. Coordinates stay strings end to end so no precision is lost
// between the click and the report form.
type Navigation struct {
	Path   string
	Params map[string]string
}

// State of the router. Routing is only ever observable mid-call; the machine
// always returns to Idle before Route returns.
type State int

const (
	Idle State = iota
	Routing
)

// Router is the click routing state machine. It has no terminal state and is
// re-entrant: one event in, at most one navigation out.
type Router struct {
	mu    sync.Mutex
	state State
}

func New() *Router {
	return &Router{state: Idle}
}

// State returns the current machine state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Route decodes one raw bridge payload and resolves it to a navigation.
// Malformed or unknown messages are logged and dropped (nil, false); the
// machine stays Idle and the caller's screen state is untouched.
func (r *Router) Route(raw []byte) (*Navigation, bool) {
	event, err := bridge.DecodeEvent(raw)
	if err != nil {
		log.Printf("[routing] dropping bridge message: %v", err)
		return nil, false
	}
	return r.RouteEvent(event)
}

// RouteEvent resolves an already-decoded event. Sector resolution for report
// clicks happens downstream in the report screen, not here.
func (r *Router) RouteEvent(event *bridge.Event) (*Navigation, bool) {
	r.mu.Lock()
	r.state = Routing
	defer func() {
		r.state = Idle
		r.mu.Unlock()
	}()

	switch event.Type {
	case bridge.EventReportClick, bridge.EventMapClick:
		return &Navigation{
			Path: ScreenReport,
			Params: map[string]string{
				"lat": geo.FormatCoord(event.Coords.Lat),
				"lng": geo.FormatCoord(event.Coords.Lng),
			},
		}, true
	case bridge.EventStatsClick:
		return &Navigation{
			Path: ScreenStats,
			Params: map[string]string{
				"sectorId":   strconv.FormatInt(event.SectorID, 10),
				"sectorName": event.SectorName,
			},
		}, true
	default:
		log.Printf("[routing] no route for event type %q", event.Type)
		return nil, false
	}
}
