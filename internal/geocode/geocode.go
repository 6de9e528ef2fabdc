package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Result holds a reverse-geocoding result.
type Result struct {
	DisplayName string
}

type nominatimResult struct {
	Display string        `json:"display_name"`
	Address nominatimAddr `json:"address"`
}

type nominatimAddr struct {
	HouseNumber  string `json:"house_number"`
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	CityDistrict string `json:"city_district"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

// Reverse resolves coordinates to a human-readable address for report
// announcements. Returns nil (no error) if nothing was found.
func Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	u := fmt.Sprintf(
		"https://nominatim.openstreetmap.org/reverse?lat=%f&lon=%f&format=json&addressdetails=1&accept-language=es",
		lat, lng,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "apagon-map/1.0")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var result nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	if result.Display == "" {
		return nil, nil
	}

	return &Result{DisplayName: formatAddress(result.Address, result.Display)}, nil
}

// formatAddress builds a clean human-readable address from structured fields,
// falling back to the raw display name.
func formatAddress(a nominatimAddr, fallback string) string {
	// Pick the settlement name: city > town > village.
	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}

	var parts []string

	// Street + house number.
	if a.Road != "" {
		street := a.Road
		if a.HouseNumber != "" {
			street += ", " + a.HouseNumber
		}
		parts = append(parts, street)
	}

	// District or suburb (if different from city and not empty).
	district := a.Suburb
	if district == "" {
		district = a.CityDistrict
	}
	if district != "" && district != city {
		parts = append(parts, district)
	}

	// City / town / village.
	if city != "" {
		parts = append(parts, city)
	}

	if len(parts) == 0 {
		return fallback
	}

	return strings.Join(parts, ", ")
}
