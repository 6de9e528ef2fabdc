package models

import "time"

// PowerStatus is the two-valued power state used both for a sector's
// aggregate status and for the condition a user reports.
type PowerStatus string

const (
	Power   PowerStatus = "POWER"
	NoPower PowerStatus = "NO_POWER"
)

// Valid reports whether s is one of the two known states.
func (s PowerStatus) Valid() bool {
	return s == Power || s == NoPower
}

// GeoJSON is a polygon geometry. Coordinates as received from the backend are
// [lng, lat] ordered rings; after normalization for rendering only the outer
// ring survives and every pair is [lat, lng].
type GeoJSON struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// RawGeoJSON matches the wire shape before normalization: a list of rings.
type RawGeoJSON struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// Sector is a named geographic zone with an aggregate power state.
type Sector struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Status      PowerStatus `json:"status"`
	LastUpdated string      `json:"lastUpdated,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
	GeoJSON     GeoJSON     `json:"geojson"`
}

// AddReport is the mutable draft behind a not-yet-submitted outage report.
// Latitude and longitude are 5-decimal strings, either device-derived or
// forwarded from a map click.
type AddReport struct {
	Latitude    string      `json:"latitude"`
	Longitude   string      `json:"longitude"`
	SectorID    string      `json:"sectorId,omitempty"`
	Description string      `json:"description"`
	PowerStatus PowerStatus `json:"powerStatus"`
	Status      string      `json:"status"`
	ImageURI    string      `json:"photoUrl,omitempty"`
}

// Report is the backend's representation of a created report.
type Report struct {
	ID          int64       `json:"id"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	Description string      `json:"description"`
	PowerStatus PowerStatus `json:"powerStatus"`
	Status      string      `json:"status"`
	PhotoURL    string      `json:"photoUrl"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Sector      *Sector     `json:"sector,omitempty"`
	User        *User       `json:"user,omitempty"`
}

// User is the authenticated account profile.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// SectorUptimeHistory aggregates power availability for one sector over a
// date range. PowerHours never exceeds TotalHours and Percentage is 0-100.
type SectorUptimeHistory struct {
	Sector     *Sector `json:"sector"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Percentage float64 `json:"percentage"`
	PowerHours float64 `json:"powerHours"`
	TotalHours float64 `json:"totalHours"`
}

// DowntimeHours is the derived hours without power over the range.
func (h SectorUptimeHistory) DowntimeHours() float64 {
	return h.TotalHours - h.PowerHours
}

// ReportNotification is the worker's journal record of an announced report.
type ReportNotification struct {
	ReportID   int64     `json:"report_id" db:"report_id"`
	MessageID  int       `json:"message_id" db:"message_id"`
	NotifiedAt time.Time `json:"notified_at" db:"notified_at"`
}
