// Package analysis wires the GeoBioTool pipeline stages into single-shot
// entry points: load -> validate -> filter -> bin -> compute -> assemble.
// Each run builds its own state and discards it; there is nothing shared
// between invocations, so the entry points are callable identically from the
// CLI, a test harness, or any host integration.
package analysis

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/therekim/GeoBioTool/internal/models"
	"github.com/therekim/GeoBioTool/pkg/canopy"
	"github.com/therekim/GeoBioTool/pkg/classes"
	"github.com/therekim/GeoBioTool/pkg/diversity"
	"github.com/therekim/GeoBioTool/pkg/grid"
	"github.com/therekim/GeoBioTool/pkg/raster"
)

// Feedback receives progress messages during a run. A nil Feedback discards
// them.
type Feedback func(msg string)

func (fb Feedback) say(format string, args ...any) {
	if fb != nil {
		fb(fmt.Sprintf(format, args...))
	}
}

// RunDiversity computes a class-frequency diversity report over a decoded
// raster band. The band is normalized (NaN/Inf -> 0) in place, filtered by
// the class selection (or the default validity window when classSpec is
// empty), and reduced to a frequency table; the report carries one line per
// requested index plus both sorted class views. With no kinds given it is a
// combined run reporting Shannon-Wiener and Simpson together.
func RunDiversity(band [][]float64, classSpec string, fb Feedback, kinds ...diversity.Kind) (string, error) {
	if len(kinds) == 0 {
		kinds = []diversity.Kind{diversity.ShannonWiener, diversity.SimpsonIndex}
	}

	sel, err := classes.Parse(classSpec)
	if err != nil {
		return "", err
	}
	if sel != nil {
		fb.say("Restricting analysis to %d classes: %s", sel.Len(), sel)
	}

	raster.Normalize(band)
	samples := raster.Flatten(band)
	fb.say("Loaded %d raster cells", len(samples))

	ft, err := diversity.BuildFrequencyTable(samples, sel)
	if err != nil {
		return "", err
	}
	fb.say("Counted %d valid pixels in %d classes", ft.Total, len(ft.Counts))

	values := make([]diversity.IndexValue, len(kinds))
	for i, kind := range kinds {
		values[i] = diversity.IndexValue{Name: kind.Name(), Value: kind.Compute(ft)}
		fb.say("%s: %.4f", values[i].Name, values[i].Value)
	}

	return diversity.FormatReport(ft, values...), nil
}

// CanopyParams configures a vertical-structure run.
type CanopyParams struct {
	// CellSize is the grid cell edge length in the units of the input
	// coordinates. Ignored when WholeExtent is set.
	CellSize float64

	// WholeExtent treats the entire cloud as one degenerate cell.
	WholeExtent bool

	// MinCellPoints is the occupancy threshold; zero means
	// grid.DefaultMinCellPoints.
	MinCellPoints int

	// Metrics selects which vertical-structure metrics to compute.
	Metrics canopy.Set

	// Layering holds the LAI/VCI ground threshold and layer thickness;
	// the zero value means canopy.DefaultParams.
	Layering canopy.Params

	// Workers caps the number of goroutines computing cell metrics;
	// zero or negative means runtime.NumCPU.
	Workers int
}

// RunCanopy bins the cloud, drops under-occupied cells before any metric
// math, computes the selected metrics per cell, and assembles the ordered
// result table.
func RunCanopy(points []models.Point, p CanopyParams, fb Feedback) (*grid.Result, error) {
	if p.Metrics == 0 {
		return nil, fmt.Errorf("no metrics selected")
	}
	minPoints := p.MinCellPoints
	if minPoints == 0 {
		minPoints = grid.DefaultMinCellPoints
	}
	layering := p.Layering
	if layering == (canopy.Params{}) {
		layering = canopy.DefaultParams()
	}

	var (
		g   *grid.Grid
		err error
	)
	if p.WholeExtent {
		fb.say("Binning %d points into a single whole-extent cell", len(points))
		g, err = grid.BinWholeExtent(points)
	} else {
		fb.say("Binning %d points into %g-unit cells", len(points), p.CellSize)
		g, err = grid.Bin(points, p.CellSize)
	}
	if err != nil {
		return nil, err
	}

	occupied := g.Len()
	if err := g.Filter(minPoints); err != nil {
		return nil, err
	}
	fb.say("Kept %d of %d cells with at least %d points", g.Len(), occupied, minPoints)

	keys := g.Keys()
	records := make([]grid.CellRecord, len(keys))

	// Divide the cells among available cores. Each worker fills a disjoint
	// range of the preallocated record slice, so the row-major output order
	// is preserved without any locking.
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(keys) {
		workers = len(keys)
	}
	cellsPerWorker := (len(keys) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func(start int) {
			defer wg.Done()

			end := start + cellsPerWorker
			if end > len(keys) {
				end = len(keys)
			}
			for i := start; i < end; i++ {
				key := keys[i]
				zs := g.Heights(key)
				xMin, yMin := g.CellOrigin(key)
				records[i] = grid.CellRecord{
					Key:    key,
					XMin:   xMin,
					YMin:   yMin,
					Count:  len(zs),
					ZMean:  stat.Mean(zs, nil),
					ZMax:   floats.Max(zs),
					Values: canopy.Compute(zs, p.Metrics, layering),
				}
			}
		}(w * cellsPerWorker)
	}
	wg.Wait()
	fb.say("Computed %s for %d cells on %d workers", p.Metrics, len(records), workers)

	return &grid.Result{Metrics: p.Metrics, Records: records}, nil
}
