package diversity

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therekim/GeoBioTool/pkg/classes"
)

const tol = 1e-6

func TestBuildFrequencyTableDefaultWindow(t *testing.T) {
	// 0 and 255 are no-data codes, anything outside (0, 255) is dropped.
	samples := []float64{0, 1, 1, 2, 2, 255, 300, -4}
	ft, err := BuildFrequencyTable(samples, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, ft.Total)
	assert.Equal(t, map[int]int{1: 2, 2: 2}, ft.Counts)
}

func TestBuildFrequencyTableWithSelector(t *testing.T) {
	sel, err := classes.Parse("1,3")
	require.NoError(t, err)

	samples := []float64{1, 1, 2, 3, 3, 3}
	ft, err := BuildFrequencyTable(samples, sel)
	require.NoError(t, err)

	assert.Equal(t, 5, ft.Total)
	assert.Equal(t, map[int]int{1: 2, 3: 3}, ft.Counts)
}

func TestBuildFrequencyTableEmpty(t *testing.T) {
	_, err := BuildFrequencyTable([]float64{0, 255, 300}, nil)
	require.ErrorIs(t, err, ErrNoValidPixels)

	sel, err := classes.Parse("9")
	require.NoError(t, err)
	_, err = BuildFrequencyTable([]float64{1, 2, 3}, sel)
	require.ErrorIs(t, err, ErrNoValidPixels)
}

func TestProportionsSumToOne(t *testing.T) {
	samples := []float64{1, 1, 2, 3, 3, 3, 7, 7, 7, 7}
	ft, err := BuildFrequencyTable(samples, nil)
	require.NoError(t, err)

	sum := 0.0
	for _, id := range ft.Classes() {
		sum += ft.Proportion(id)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestIndicesKnownValues(t *testing.T) {
	// Two classes, two samples each: H = ln 2, D = 1/2.
	ft, err := BuildFrequencyTable([]float64{1, 1, 2, 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, ft.Total)
	assert.InDelta(t, 0.6931, Shannon(ft), 1e-4)
	assert.InDelta(t, 0.5, Simpson(ft), tol)
}

func TestIndicesUniformDistribution(t *testing.T) {
	// Uniform over n classes: Simpson = 1 - 1/n, Shannon = ln n.
	for _, n := range []int{2, 5, 10} {
		samples := make([]float64, 0, n*3)
		for class := 1; class <= n; class++ {
			for i := 0; i < 3; i++ {
				samples = append(samples, float64(class))
			}
		}
		ft, err := BuildFrequencyTable(samples, nil)
		require.NoError(t, err)

		assert.InDelta(t, 1-1/float64(n), Simpson(ft), tol)
		assert.InDelta(t, math.Log(float64(n)), Shannon(ft), tol)
	}
}

func TestIndicesSingleClass(t *testing.T) {
	ft, err := BuildFrequencyTable([]float64{7, 7, 7, 7, 7}, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, Shannon(ft), tol)
	assert.InDelta(t, 0.0, Simpson(ft), tol)
}

func TestKindDispatch(t *testing.T) {
	ft, err := BuildFrequencyTable([]float64{1, 1, 2, 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Shannon–Wiener", ShannonWiener.Name())
	assert.Equal(t, "Simpson", SimpsonIndex.Name())
	assert.InDelta(t, Shannon(ft), ShannonWiener.Compute(ft), tol)
	assert.InDelta(t, Simpson(ft), SimpsonIndex.Compute(ft), tol)
}

func TestSortedViewsContainSameTriples(t *testing.T) {
	samples := []float64{5, 5, 5, 2, 2, 9, 9, 9, 1}
	ft, err := BuildFrequencyTable(samples, nil)
	require.NoError(t, err)

	asc := ft.ByClass()
	desc := ft.ByProportion()
	require.Len(t, desc, len(asc))

	seen := make(map[ClassShare]bool)
	for _, s := range asc {
		seen[s] = true
	}
	for _, s := range desc {
		assert.True(t, seen[s], "share %+v missing from ascending view", s)
	}

	// Ascending view ordered by class id.
	for i := 1; i < len(asc); i++ {
		assert.Less(t, asc[i-1].Class, asc[i].Class)
	}
	// Descending view ordered by proportion, ties by class id.
	for i := 1; i < len(desc); i++ {
		if desc[i-1].Proportion == desc[i].Proportion {
			assert.Less(t, desc[i-1].Class, desc[i].Class)
		} else {
			assert.Greater(t, desc[i-1].Proportion, desc[i].Proportion)
		}
	}
}

func TestFormatReport(t *testing.T) {
	ft, err := BuildFrequencyTable([]float64{1, 1, 2, 2}, nil)
	require.NoError(t, err)

	report := FormatReport(ft, IndexValue{Name: ShannonWiener.Name(), Value: Shannon(ft)})
	lines := strings.Split(report, "\n")

	assert.Equal(t, "Total pixels: 4", lines[0])
	assert.Equal(t, "Shannon–Wiener: 0.6931", lines[1])
	assert.Contains(t, report, "By class (asc):\n  1: 0.5000 (2 pixels)\n  2: 0.5000 (2 pixels)")
	assert.Contains(t, report, "By proportion (desc):\n  1: 0.5000 (2 pixels)\n  2: 0.5000 (2 pixels)")
}
