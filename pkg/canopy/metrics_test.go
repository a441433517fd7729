package canopy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

// repeat builds a slice with count copies of each given value.
func repeat(count int, values ...float64) []float64 {
	out := make([]float64, 0, count*len(values))
	for _, v := range values {
		for i := 0; i < count; i++ {
			out = append(out, v)
		}
	}
	return out
}

func TestFHDSingleBinIsZero(t *testing.T) {
	// All heights inside one 0.5-wide bin: entropy 0, still a valid value.
	z := repeat(25, 10.2)
	v := FHD(z)
	require.True(t, v.Valid)
	assert.InDelta(t, 0.0, v.Value, tol)
}

func TestFHDTwoEqualBins(t *testing.T) {
	// 10 points at 1.0 and 10 at 1.6 split into bins [1.0,1.5) and
	// [1.5,2.0): H = ln 2.
	z := repeat(10, 1.0, 1.6)
	v := FHD(z)
	require.True(t, v.Valid)
	assert.InDelta(t, math.Log(2), v.Value, tol)
}

func TestFHDExactMultipleSpan(t *testing.T) {
	// A span that is an exact multiple of the bin width keeps the maximum
	// height inside the closed final bin. 1.0 and 1.5 share the single bin
	// [1.0, 1.5], so the entropy is 0, not ln 2.
	z := repeat(20, 1.0, 1.5)
	v := FHD(z)
	require.True(t, v.Valid)
	assert.InDelta(t, 0.0, v.Value, tol)

	// Span 1.0 gives two bins with the top height closing the second.
	z = repeat(20, 1.0, 2.0)
	v = FHD(z)
	require.True(t, v.Valid)
	assert.InDelta(t, math.Log(2), v.Value, tol)
}

func TestFHDRequiresMinimumSamples(t *testing.T) {
	assert.False(t, FHD(repeat(19, 1.0)).Valid)
	assert.True(t, FHD(repeat(20, 1.0)).Valid)
}

func TestRumpleKnownValue(t *testing.T) {
	// mean 5, population std 2.
	z := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	v := Rumple(z)
	require.True(t, v.Valid)
	assert.InDelta(t, 0.4, v.Value, tol)
}

func TestRumpleZeroMeanIsAbsent(t *testing.T) {
	assert.False(t, Rumple([]float64{-1, 0, 1}).Valid)
	assert.False(t, Rumple(nil).Valid)
}

func TestLAIVCIKnownValues(t *testing.T) {
	// Qualifying points 3.2, 3.8, 4.2, 4.6 with z0=3, dz=1 give layers
	// 3,4,5 and counts N=[4,2,0]: LAI = ln(4/2), the ln(2/0) term is
	// skipped. Layer histogram [2,2] has zero spread: VCI = 0.
	z := []float64{0.5, 1.0, 3.2, 3.8, 4.2, 4.6}
	lai, vci := LAIVCI(z, DefaultParams())

	require.True(t, lai.Valid)
	assert.InDelta(t, math.Log(2), lai.Value, tol)
	require.True(t, vci.Valid)
	assert.InDelta(t, 0.0, vci.Value, tol)
}

func TestLAIVCIVariableLayers(t *testing.T) {
	// Heights 3.5, 4.5, 5.5 give layers 3,4,5,6 and counts N=[3,2,1,0]:
	// LAI = ln(3/2) + ln(2/1), with the final ln(1/0) term skipped.
	z := []float64{3.5, 4.5, 5.5}
	lai, vci := LAIVCI(z, DefaultParams())

	require.True(t, lai.Valid)
	assert.InDelta(t, math.Log(1.5)+math.Log(2), lai.Value, tol)

	require.True(t, vci.Valid)
	// hist [1,1,1]: mean 1, population std 0.
	assert.InDelta(t, 0.0, vci.Value, tol)
}

func TestLAIVCINoQualifyingPoints(t *testing.T) {
	lai, vci := LAIVCI([]float64{0.5, 1.0, 2.9}, DefaultParams())
	assert.False(t, lai.Valid)
	assert.False(t, vci.Valid)
}

func TestLAIVCISingleLayer(t *testing.T) {
	// All qualifying points exactly at z0: one boundary, no layer pairs.
	// LAI is the empty sum; VCI has no histogram to vary over.
	lai, vci := LAIVCI(repeat(5, 3.0), DefaultParams())
	require.True(t, lai.Valid)
	assert.InDelta(t, 0.0, lai.Value, tol)
	assert.False(t, vci.Valid)
}

func TestComputeRespectsSelection(t *testing.T) {
	z := repeat(10, 1.0, 1.6)

	m := Compute(z, WithFHD, DefaultParams())
	assert.True(t, m.FHD.Valid)
	assert.False(t, m.Rumple.Valid)
	assert.False(t, m.LAI.Valid)
	assert.False(t, m.VCI.Valid)

	m = Compute(z, AllMetrics, DefaultParams())
	assert.True(t, m.FHD.Valid)
	assert.True(t, m.Rumple.Valid)
}

func TestSetColumns(t *testing.T) {
	assert.Equal(t, []string{"FHD"}, WithFHD.Columns())
	assert.Equal(t, []string{"LAI", "VCI"}, (WithLAI | WithVCI).Columns())
	assert.Equal(t, []string{"FHD", "rumple_index", "LAI", "VCI"}, AllMetrics.Columns())
	assert.Equal(t, "LAI,VCI", (WithLAI | WithVCI).String())
}
