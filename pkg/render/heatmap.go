// Package render draws the dense metric matrix produced by a grid run.
// Two sinks are provided: a static PNG heatmap (gonum/plot) and a
// self-contained interactive HTML heatmap (go-echarts). Masked cells are
// left undrawn in both; they never render as zero.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/therekim/GeoBioTool/pkg/grid"
)

// viridisColors approximates the viridis ramp used for the HTML visual map.
var viridisColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// matrixGrid adapts grid.Matrix to gonum/plot's GridXYZ. Masked cells read
// as NaN, which the heat map plotter leaves undrawn.
type matrixGrid struct {
	m grid.Matrix
}

func (g matrixGrid) Dims() (c, r int) { return len(g.m.Xs), len(g.m.Ys) }
func (g matrixGrid) X(c int) float64  { return g.m.Xs[c] }
func (g matrixGrid) Y(r int) float64  { return g.m.Ys[r] }

func (g matrixGrid) Z(c, r int) float64 {
	if g.m.Mask[r][c] {
		return math.NaN()
	}
	return g.m.Values[r][c]
}

// valueRange scans the unmasked cells. ok is false for an all-masked matrix.
func valueRange(m grid.Matrix) (min, max float64, ok bool) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for r := range m.Values {
		for c, v := range m.Values[r] {
			if m.Mask[r][c] {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			ok = true
		}
	}
	return min, max, ok
}

// SavePNG renders the matrix as a PNG heatmap labeled with the metric name.
func SavePNG(m grid.Matrix, label, path string) error {
	if len(m.Xs) == 0 || len(m.Ys) == 0 {
		return fmt.Errorf("cannot render heatmap: matrix is empty")
	}
	min, max, ok := valueRange(m)
	if !ok {
		return fmt.Errorf("cannot render heatmap: every cell is masked")
	}

	p := plot.New()
	p.Title.Text = label
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	hm := plotter.NewHeatMap(matrixGrid{m}, palette.Heat(len(viridisColors), 1))
	// Fix the palette range from the unmasked values only, so NaN cells
	// cannot skew the normalization.
	hm.Min = min
	hm.Max = max
	if hm.Min == hm.Max {
		// A flat matrix still needs a nonzero range to colorize.
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("error saving heatmap PNG: %w", err)
	}
	return nil
}

// WriteHTML renders the matrix as a standalone echarts heatmap document.
// Masked cells are omitted from the series entirely.
func WriteHTML(m grid.Matrix, label string, w io.Writer) error {
	if len(m.Xs) == 0 || len(m.Ys) == 0 {
		return fmt.Errorf("cannot render heatmap: matrix is empty")
	}
	min, max, ok := valueRange(m)
	if !ok {
		return fmt.Errorf("cannot render heatmap: every cell is masked")
	}

	xLabels := make([]string, len(m.Xs))
	for i, x := range m.Xs {
		xLabels[i] = formatCoord(x)
	}
	yLabels := make([]string, len(m.Ys))
	for i, y := range m.Ys {
		yLabels[i] = formatCoord(y)
	}

	data := make([]opts.HeatMapData, 0, len(m.Xs)*len(m.Ys))
	for r := range m.Values {
		for c, v := range m.Values[r] {
			if m.Mask[r][c] {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: label, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: label}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "X"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Y", Data: yLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(min),
			Max:        float32(max),
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)
	hm.SetXAxis(xLabels).AddSeries(label, data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("error rendering heatmap HTML: %w", err)
	}
	return nil
}

// SaveHTML writes the echarts heatmap to the named file.
func SaveHTML(m grid.Matrix, label, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating heatmap file: %w", err)
	}
	defer f.Close()

	if err := WriteHTML(m, label, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
