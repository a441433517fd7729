// Package canopy computes vertical canopy-structure metrics from the height
// values of a single spatial cell: Foliage Height Diversity (FHD), the
// Rumple roughness index, and the Leaf Area Index / Vertical Complexity
// Index pair (LAI/VCI).
//
// Every metric is independent and pure. A metric whose mathematical
// precondition fails for a cell yields an absent value; it never aborts the
// surrounding run.
package canopy

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/therekim/GeoBioTool/internal/models"
)

const (
	// HeightBinWidth is the fixed FHD height-bin width. The 0.5-unit bin is
	// the convention the metric definition fixes, not a tuning parameter.
	HeightBinWidth = 0.5

	// DefaultGroundThreshold is the default LAI/VCI ground cutoff z0: points
	// below it are understory/ground returns and are excluded.
	DefaultGroundThreshold = 3.0

	// DefaultLayerThickness is the default LAI/VCI layer height dz.
	DefaultLayerThickness = 1.0

	// minFHDSamples is the smallest cell for which FHD is defined. Cells
	// below the grid occupancy threshold never reach this code, but the
	// guard keeps the function total on direct calls.
	minFHDSamples = 20
)

// Params carries the LAI/VCI layering parameters.
type Params struct {
	// GroundThreshold is z0, the lowest height considered canopy.
	GroundThreshold float64

	// LayerThickness is dz, the height of each canopy layer.
	LayerThickness float64
}

// DefaultParams returns the conventional z0=3, dz=1 layering.
func DefaultParams() Params {
	return Params{
		GroundThreshold: DefaultGroundThreshold,
		LayerThickness:  DefaultLayerThickness,
	}
}

// Set selects which metrics to compute for a cell.
type Set uint8

const (
	WithFHD Set = 1 << iota
	WithRumple
	WithLAI
	WithVCI
)

// AllMetrics selects every vertical-structure metric.
const AllMetrics = WithFHD | WithRumple | WithLAI | WithVCI

// Has reports whether every metric in m is selected.
func (s Set) Has(m Set) bool { return s&m == m }

// Columns returns the CSV column names of the selected metrics in canonical
// order. The grid table and the heatmap sinks key on these names.
func (s Set) Columns() []string {
	var cols []string
	if s.Has(WithFHD) {
		cols = append(cols, "FHD")
	}
	if s.Has(WithRumple) {
		cols = append(cols, "rumple_index")
	}
	if s.Has(WithLAI) {
		cols = append(cols, "LAI")
	}
	if s.Has(WithVCI) {
		cols = append(cols, "VCI")
	}
	return cols
}

// String names the selected metrics, for feedback messages.
func (s Set) String() string {
	return strings.Join(s.Columns(), ",")
}

// Metrics holds one cell's computed values. Unselected or undefined metrics
// are absent.
type Metrics struct {
	FHD    models.OptFloat
	Rumple models.OptFloat
	LAI    models.OptFloat
	VCI    models.OptFloat
}

// Column returns the metric matching a CSV column name.
func (m Metrics) Column(name string) models.OptFloat {
	switch name {
	case "FHD":
		return m.FHD
	case "rumple_index":
		return m.Rumple
	case "LAI":
		return m.LAI
	case "VCI":
		return m.VCI
	}
	return models.OptFloat{}
}

// Compute evaluates the selected metrics over one cell's height values.
func Compute(z []float64, set Set, p Params) Metrics {
	var m Metrics
	if set.Has(WithFHD) {
		m.FHD = FHD(z)
	}
	if set.Has(WithRumple) {
		m.Rumple = Rumple(z)
	}
	if set.Has(WithLAI) || set.Has(WithVCI) {
		lai, vci := LAIVCI(z, p)
		if set.Has(WithLAI) {
			m.LAI = lai
		}
		if set.Has(WithVCI) {
			m.VCI = vci
		}
	}
	return m
}

// FHD computes the Foliage Height Diversity: Shannon entropy of the
// proportions of points in fixed 0.5-unit height bins spanning
// [min(z), max(z)]. A cell whose heights all fall in one bin has entropy 0.
func FHD(z []float64) models.OptFloat {
	if len(z) < minFHDSamples {
		return models.OptFloat{}
	}

	sorted := append([]float64(nil), z...)
	sort.Float64s(sorted)
	lo := sorted[0]
	hi := sorted[len(sorted)-1]

	// Bin edges run lo, lo+0.5, ... with the last edge covering hi through
	// the closed final bin. A span that is an exact multiple of the bin
	// width must not open an extra bin for the points sitting at hi.
	nBins := int(math.Ceil((hi - lo) / HeightBinWidth))
	if nBins < 1 {
		nBins = 1
	}
	dividers := make([]float64, nBins+1)
	for i := range dividers {
		dividers[i] = lo + float64(i)*HeightBinWidth
	}
	// The top edge must stay strictly above max(z) for the histogram to
	// cover every sample under floating-point rounding.
	if dividers[nBins] <= hi {
		dividers[nBins] = hi + HeightBinWidth
	}

	counts := stat.Histogram(make([]float64, nBins), dividers, sorted, nil)

	total := float64(len(sorted))
	h := 0.0
	for _, c := range counts {
		if c > 0 {
			p := c / total
			h -= p * math.Log(p)
		}
	}
	return models.Of(h)
}

// Rumple computes the coefficient of variation of height, std(z)/mean(z),
// a surface-roughness proxy. Absent when the mean height is zero.
func Rumple(z []float64) models.OptFloat {
	if len(z) == 0 {
		return models.OptFloat{}
	}
	mean := stat.Mean(z, nil)
	if mean == 0 {
		return models.OptFloat{}
	}
	return models.Of(stat.PopStdDev(z, nil) / mean)
}

// LAIVCI computes the Leaf Area Index and Vertical Complexity Index over the
// points at or above the ground threshold. Both are absent when no point
// qualifies.
//
// Layer boundaries run z0, z0+dz, ... up to (but excluding) max(z)+dz. For
// each boundary h, N(h) counts qualifying points with z >= h. A layer pair
// contributes ln(N_i/N_{i+1}) to LAI only when both counts are strictly
// positive; undefined terms are skipped outright rather than added as zero.
// VCI is the coefficient of variation of the per-layer point histogram,
// absent when the histogram mean is zero or no boundary pair exists.
func LAIVCI(z []float64, p Params) (lai, vci models.OptFloat) {
	z0 := p.GroundThreshold
	dz := p.LayerThickness
	if dz <= 0 {
		return models.OptFloat{}, models.OptFloat{}
	}

	above := make([]float64, 0, len(z))
	for _, v := range z {
		if v >= z0 {
			above = append(above, v)
		}
	}
	if len(above) == 0 {
		return models.OptFloat{}, models.OptFloat{}
	}
	sort.Float64s(above)
	maxH := above[len(above)-1]

	var layers []float64
	for i := 0; ; i++ {
		h := z0 + float64(i)*dz
		if h >= maxH+dz {
			break
		}
		layers = append(layers, h)
	}

	// N(h) per boundary, via binary search on the sorted heights.
	counts := make([]float64, len(layers))
	for i, h := range layers {
		counts[i] = float64(len(above) - sort.SearchFloat64s(above, h))
	}

	laiSum := 0.0
	for i := 0; i+1 < len(counts); i++ {
		if counts[i] > 0 && counts[i+1] > 0 {
			laiSum += math.Log(counts[i] / counts[i+1])
		}
	}
	lai = models.Of(laiSum)

	// Per-layer histogram: bin i holds points in [layers[i], layers[i+1]),
	// with the final bin closed on the right. Expressed through the N(h)
	// counts so the edge semantics stay exact; the last boundary is at or
	// above max(z), so the closed final bin is simply N of its lower edge.
	if len(layers) < 2 {
		return lai, models.OptFloat{}
	}
	hist := make([]float64, len(layers)-1)
	for i := range hist {
		if i == len(hist)-1 {
			hist[i] = counts[i]
		} else {
			hist[i] = counts[i] - counts[i+1]
		}
	}

	sum := 0.0
	for _, c := range hist {
		sum += c
	}
	mean := stat.Mean(hist, nil)
	if sum <= 0 || mean == 0 {
		return lai, models.OptFloat{}
	}
	return lai, models.Of(stat.PopStdDev(hist, nil) / mean)
}
