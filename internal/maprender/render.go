// Package maprender produces the self-contained Leaflet page that draws the
// sector map. The page is parameterized by the viewer's position and the
// normalized sector list; all interaction flows back over the bridge
// endpoints baked into the generated script.
package maprender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"apagon-map/internal/models"
)

// Polygon colors per aggregate sector status.
const (
	ColorNoPower = "red"
	ColorPower   = "green"
)

const defaultZoom = 15

// Position is the viewer's device location. Accuracy is the radius in meters
// of the confidence circle.
type Position struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

// Params drives one page render.
type Params struct {
	// Position is nil when geolocation was denied or unavailable; the map
	// then centers on the fallback point and draws no location marker.
	Position    *Position
	FallbackLat float64
	FallbackLng float64
	Sectors     []models.Sector
	// EventURL receives inbound bridge events; CommandURL is polled for
	// host → map commands.
	EventURL   string
	CommandURL string
}

// sectorView is what the page script iterates over: one polygon per sector.
type sectorView struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Label  string      `json:"label"`
	ID     int64       `json:"id"`
	Coords [][]float64 `json:"coords"`
}

// StatusColor maps a sector status to its polygon color.
func StatusColor(status models.PowerStatus) string {
	if status == models.NoPower {
		return ColorNoPower
	}
	return ColorPower
}

// statusLabel is the Spanish popup label for a status.
func statusLabel(status models.PowerStatus) string {
	if status == models.NoPower {
		return "Sin Energía"
	}
	return "Con Energía"
}

// Render builds the full HTML payload for the map surface.
func Render(p Params) (string, error) {
	views := make([]sectorView, 0, len(p.Sectors))
	for _, s := range p.Sectors {
		coords := s.GeoJSON.Coordinates
		if coords == nil {
			coords = [][]float64{}
		}
		views = append(views, sectorView{
			Name:   s.Name,
			Color:  StatusColor(s.Status),
			Label:  statusLabel(s.Status),
			ID:     s.ID,
			Coords: coords,
		})
	}

	sectorsJSON, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("marshal sectors: %w", err)
	}

	centerLat, centerLng := p.FallbackLat, p.FallbackLng
	hasPosition := p.Position != nil
	var posJSON []byte
	if hasPosition {
		centerLat, centerLng = p.Position.Lat, p.Position.Lng
		posJSON, err = json.Marshal(p.Position)
		if err != nil {
			return "", fmt.Errorf("marshal position: %w", err)
		}
	} else {
		posJSON = []byte("null")
	}

	data := pageData{
		CenterLat:   centerLat,
		CenterLng:   centerLng,
		Zoom:        defaultZoom,
		HasPosition: hasPosition,
		PositionJS:  template.JS(posJSON),
		SectorsJS:   template.JS(sectorsJSON),
		EventURL:    p.EventURL,
		CommandURL:  p.CommandURL,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render map page: %w", err)
	}
	return buf.String(), nil
}

type pageData struct {
	CenterLat   float64
	CenterLng   float64
	Zoom        int
	HasPosition bool
	PositionJS  template.JS
	SectorsJS   template.JS
	EventURL    string
	CommandURL  string
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta name="viewport" content="initial-scale=1,maximum-scale=1,user-scalable=no" />
    <link rel="stylesheet" href="https://unpkg.com/leaflet/dist/leaflet.css" />
    <script src="https://unpkg.com/leaflet/dist/leaflet.js"></script>
    <style>
      body, html, #map { margin: 0; padding: 0; height: 100%; width: 100%; }
    </style>
  </head>
  <body>
    <div id="map"></div>
    <script>
      var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLng}}], {{.Zoom}});

      L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
        attribution: "© OpenStreetMap contributors",
      }).addTo(map);

      var clickMarker;
      var position = {{.PositionJS}};
      var sectors = {{.SectorsJS}};

      if (position) {
        L.circleMarker([position.lat, position.lng], {
          radius: 8,
          fillColor: "#4285F4",
          color: "#ffffff",
          weight: 2,
          opacity: 1,
          fillOpacity: 1
        }).addTo(map);

        L.circle([position.lat, position.lng], {
          radius: position.accuracy,
          color: "#4285F4",
          fillColor: "#4285F4",
          fillOpacity: 0.1,
          weight: 9
        }).addTo(map);
      }

      function postEvent(payload) {
        fetch({{.EventURL}}, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(payload)
        })
          .then(function (res) { return res.json(); })
          .then(function (nav) {
            if (nav && nav.path) {
              var query = new URLSearchParams(nav.params || {});
              window.location.href = nav.path + "?" + query.toString();
            }
          })
          .catch(function () { /* recoverable: stay on the map */ });
      }

      sectors.forEach(function (sector) {
        if (!sector.coords.length) return;
        var polygon = L.polygon(sector.coords, { color: sector.color }).addTo(map);
        polygon.on("click", function (e) {
          L.DomEvent.stopPropagation(e);
          var popup = L.popup()
            .setLatLng(e.latlng)
            .setContent(
              "<b>" + sector.name + "</b> - Estado: " + sector.label +
              '<br/><button id="report-here">Reportar aquí</button>' +
              '<button id="sector-stats">Ver estadísticas</button>'
            )
            .openOn(map);
          document.getElementById("report-here").onclick = function () {
            postEvent({ type: "REPORT_CLICK", coords: { lat: e.latlng.lat, lng: e.latlng.lng } });
          };
          document.getElementById("sector-stats").onclick = function () {
            postEvent({ type: "SECTOR_STATS_CLICK", sectorId: sector.id, sectorName: sector.name });
          };
        });
      });

      map.on("click", function (e) {
        if (clickMarker) {
          map.removeLayer(clickMarker);
        }
        clickMarker = L.marker(e.latlng)
          .addTo(map)
          .bindPopup(
            "Marcador en " + e.latlng.lat.toFixed(5) + ", " + e.latlng.lng.toFixed(5) +
            '<br/><button id="report-point">Reportar ubicación</button>'
          )
          .openPopup();
        document.getElementById("report-point").onclick = function () {
          postEvent({ type: "REPORT_CLICK", coords: { lat: e.latlng.lat, lng: e.latlng.lng } });
        };
      });

      function applyCommand(data) {
        if (data.action === "CENTER_MAP") {
          map.flyTo([data.lat, data.lng], {{.Zoom}});
        } else if (data.action === "addMarker") {
          if (clickMarker) {
            map.removeLayer(clickMarker);
          }
          clickMarker = L.marker([data.lat, data.lng])
            .addTo(map)
            .bindPopup(data.text || "Marcador agregado")
            .openPopup();
        }
        // Unknown actions fall through as no-ops.
      }

      document.addEventListener("message", function (event) {
        try {
          applyCommand(JSON.parse(event.data));
        } catch (e) { /* ignore malformed host messages */ }
      });

      setInterval(function () {
        fetch({{.CommandURL}})
          .then(function (res) { return res.json(); })
          .then(function (commands) {
            (commands || []).forEach(applyCommand);
          })
          .catch(function () { /* offline: keep the map usable */ });
      }, 2000);
    </script>
  </body>
</html>
`))
