package sectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"apagon-map/internal/geo"
	"apagon-map/internal/models"
)

// ErrInvalidUptime means the backend returned an uptime aggregate that
// violates its own invariants (percentage outside 0-100 or more power hours
// than total hours).
var ErrInvalidUptime = errors.New("sectors: inconsistent uptime aggregate")

// Client talks to the outage backend's sector endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a sector API client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// wireSector matches the listing endpoint: geojson arrives as a JSON-encoded
// string and needs its own parse step.
type wireSector struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Status      models.PowerStatus `json:"status"`
	LastUpdated string             `json:"lastUpdated"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
	GeoJSON     string             `json:"geojson"`
}

// GetSectors fetches all sectors and normalizes each geometry for rendering:
// the embedded geojson string is parsed, the outer ring extracted, and every
// coordinate pair swapped to [lat, lng].
func (c *Client) GetSectors(ctx context.Context, token string) ([]models.Sector, error) {
	var raw []wireSector
	if err := c.getJSON(ctx, c.baseURL+"/sectors", token, &raw); err != nil {
		return nil, err
	}

	sectors := make([]models.Sector, 0, len(raw))
	for _, w := range raw {
		var gj models.RawGeoJSON
		if err := json.Unmarshal([]byte(w.GeoJSON), &gj); err != nil {
			return nil, fmt.Errorf("parse geojson for sector %d: %w", w.ID, err)
		}
		sectors = append(sectors, models.Sector{
			ID:          w.ID,
			Name:        w.Name,
			Status:      w.Status,
			LastUpdated: w.LastUpdated,
			CreatedAt:   w.CreatedAt,
			UpdatedAt:   w.UpdatedAt,
			GeoJSON: models.GeoJSON{
				Type:        gj.Type,
				Coordinates: geo.OuterRingLatLng(gj.Coordinates),
			},
		})
	}
	return sectors, nil
}

// GetCurrentSector resolves which sector contains a point.
func (c *Client) GetCurrentSector(ctx context.Context, token string, lat, lng float64) (*models.Sector, error) {
	u := fmt.Sprintf("%s/sectors/current?lat=%s&lon=%s",
		c.baseURL, geo.FormatCoord(lat), geo.FormatCoord(lng))
	var sector models.Sector
	if err := c.getJSON(ctx, u, token, &sector); err != nil {
		return nil, err
	}
	return &sector, nil
}

// GetSectorUptime fetches the uptime aggregate for one sector over a local
// ISO-8601 datetime range and checks its invariants before returning it.
func (c *Client) GetSectorUptime(ctx context.Context, token string, sectorID int64, start, end string) (*models.SectorUptimeHistory, error) {
	u := fmt.Sprintf("%s/sectors/histories/%d/uptime?start=%s&end=%s",
		c.baseURL, sectorID, url.QueryEscape(start), url.QueryEscape(end))

	var history models.SectorUptimeHistory
	if err := c.getJSON(ctx, u, token, &history); err != nil {
		return nil, err
	}

	if history.Percentage < 0 || history.Percentage > 100 || history.PowerHours > history.TotalHours {
		return nil, fmt.Errorf("%w: percentage=%.2f power=%.2f total=%.2f",
			ErrInvalidUptime, history.Percentage, history.PowerHours, history.TotalHours)
	}
	return &history, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, url, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
