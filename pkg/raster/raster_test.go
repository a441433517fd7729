package raster

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	band := [][]float64{
		{1, math.NaN(), 3},
		{math.Inf(1), 5, math.Inf(-1)},
	}
	Normalize(band)

	assert.Equal(t, [][]float64{{1, 0, 3}, {0, 5, 0}}, band)
}

func TestFlatten(t *testing.T) {
	band := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, Flatten(band))
}

func TestReadASCIIGrid(t *testing.T) {
	input := `# classified land-cover sample
1 1 2
2 3 3

3 3 0
`
	band, err := ReadASCIIGrid(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, [][]float64{
		{1, 1, 2},
		{2, 3, 3},
		{3, 3, 0},
	}, band)
}

func TestReadASCIIGridErrors(t *testing.T) {
	_, err := ReadASCIIGrid(strings.NewReader("1 2\n3 x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid raster value")

	_, err = ReadASCIIGrid(strings.NewReader("1 2 3\n4 5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3")

	_, err = ReadASCIIGrid(strings.NewReader("# only comments\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}
