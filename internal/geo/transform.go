// Package geo holds the pure coordinate transformations between the backend's
// GeoJSON convention ([lng, lat]) and the Leaflet rendering convention
// ([lat, lng]).
package geo

import "strconv"

// CoordPrecision is the number of decimals kept for display and submission.
// Five decimals bound precision to roughly 1.1 m.
const CoordPrecision = 5

// SwapPairs returns a copy of ring with every coordinate pair reversed.
// Pairs shorter than two elements are copied untouched.
func SwapPairs(ring [][]float64) [][]float64 {
	out := make([][]float64, 0, len(ring))
	for _, pair := range ring {
		if len(pair) < 2 {
			out = append(out, append([]float64(nil), pair...))
			continue
		}
		out = append(out, []float64{pair[1], pair[0]})
	}
	return out
}

// OuterRingLatLng extracts the outer boundary from a list of GeoJSON rings
// and swaps it to [lat, lng] order. Holes (inner rings) are discarded.
// Zero rings yield an empty result, which renders as nothing.
func OuterRingLatLng(rings [][][]float64) [][]float64 {
	if len(rings) == 0 {
		return [][]float64{}
	}
	return SwapPairs(rings[0])
}

// FormatCoord renders a decimal coordinate with fixed 5-decimal precision so
// repeated renders of the same point never jitter.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', CoordPrecision, 64)
}

// ParseCoord parses a decimal coordinate string produced by FormatCoord or
// received as a navigation parameter.
func ParseCoord(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
