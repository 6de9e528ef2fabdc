package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwapPairs_RoundTrip(t *testing.T) {
	ring := [][]float64{
		{-69.93121, 18.48612},
		{-69.92800, 18.49001},
		{-69.93500, 18.49230},
		{-69.93121, 18.48612},
	}

	swapped := SwapPairs(ring)
	restored := SwapPairs(swapped)

	assert.Equal(t, ring, restored, "swapping twice must restore the original ring")
}

func TestSwapPairs_ReversesEachPair(t *testing.T) {
	swapped := SwapPairs([][]float64{{-69.93121, 18.48612}})

	assert.Equal(t, [][]float64{{18.48612, -69.93121}}, swapped)
}

func TestOuterRingLatLng_KeepsOnlyOuterRing(t *testing.T) {
	rings := [][][]float64{
		{{-69.93, 18.48}, {-69.92, 18.49}},
		{{-69.931, 18.481}}, // hole, must be discarded
	}

	out := OuterRingLatLng(rings)

	assert.Equal(t, [][]float64{{18.48, -69.93}, {18.49, -69.92}}, out)
}

func TestOuterRingLatLng_EmptyInput(t *testing.T) {
	out := OuterRingLatLng(nil)

	assert.NotNil(t, out)
	assert.Empty(t, out, "zero rings must yield an empty rendering no-op, not an error")
}

func TestFormatCoord_FiveDecimals(t *testing.T) {
	assert.Equal(t, "18.48612", FormatCoord(18.48612))
	assert.Equal(t, "-69.93121", FormatCoord(-69.93121))
	assert.Equal(t, "18.00000", FormatCoord(18))
	assert.Equal(t, "18.48612", FormatCoord(18.486119999))
}

func TestFormatCoord_StableAcrossRenders(t *testing.T) {
	v := 18.486123456
	first := FormatCoord(v)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FormatCoord(v))
	}
}

func TestParseCoord(t *testing.T) {
	v, err := ParseCoord("18.48612")
	assert.NoError(t, err)
	assert.InDelta(t, 18.48612, v, 1e-9)

	_, err = ParseCoord("not-a-number")
	assert.Error(t, err)
}
