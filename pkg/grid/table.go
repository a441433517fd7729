package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/therekim/GeoBioTool/pkg/canopy"
)

// CellRecord is one surviving cell's derived metrics.
type CellRecord struct {
	Key    CellKey
	XMin   float64
	YMin   float64
	Count  int
	ZMean  float64
	ZMax   float64
	Values canopy.Metrics
}

// Result is the ordered per-cell metric table for one run. Records are
// sorted row-major ascending by grid key; only cells that passed the
// occupancy filter appear at all.
type Result struct {
	Metrics canopy.Set
	Records []CellRecord
}

// Header returns the CSV column names for this result.
func (r *Result) Header() []string {
	header := []string{"x_min", "y_min", "point_count", "z_mean", "z_max"}
	return append(header, r.Metrics.Columns()...)
}

// WriteCSV emits one row per surviving cell in record order. Absent metric
// values render as empty fields, never as zeroes.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header()); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	metricCols := r.Metrics.Columns()
	for _, rec := range r.Records {
		row := []string{
			formatFloat(rec.XMin),
			formatFloat(rec.YMin),
			strconv.Itoa(rec.Count),
			formatFloat(rec.ZMean),
			formatFloat(rec.ZMax),
		}
		for _, col := range metricCols {
			v := rec.Values.Column(col)
			if v.Valid {
				row = append(row, formatFloat(v.Value))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to the named file.
func (r *Result) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer f.Close()

	if err := r.WriteCSV(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Matrix is a dense 2-D view of one metric over the union of observed cell
// coordinates, for heatmap rendering. Values[r][c] pairs with Mask[r][c]:
// a masked element marks a cell with no record (or an absent metric) and
// must render as transparent, never as numeric zero. Masked Values hold NaN
// so an unmasked read cannot silently pass as data.
type Matrix struct {
	// Xs are the sorted unique cell x-origins (columns).
	Xs []float64

	// Ys are the sorted unique cell y-origins (rows).
	Ys []float64

	Values [][]float64
	Mask   [][]bool
}

// MatrixFor builds the dense masked matrix of one metric column.
func (r *Result) MatrixFor(column string) Matrix {
	xs := uniqueSorted(r.Records, func(rec CellRecord) float64 { return rec.XMin })
	ys := uniqueSorted(r.Records, func(rec CellRecord) float64 { return rec.YMin })

	xIdx := make(map[float64]int, len(xs))
	for i, x := range xs {
		xIdx[x] = i
	}
	yIdx := make(map[float64]int, len(ys))
	for i, y := range ys {
		yIdx[y] = i
	}

	values := make([][]float64, len(ys))
	mask := make([][]bool, len(ys))
	for i := range values {
		values[i] = make([]float64, len(xs))
		mask[i] = make([]bool, len(xs))
		for j := range values[i] {
			values[i][j] = math.NaN()
			mask[i][j] = true
		}
	}

	for _, rec := range r.Records {
		v := rec.Values.Column(column)
		if !v.Valid {
			continue
		}
		row := yIdx[rec.YMin]
		col := xIdx[rec.XMin]
		values[row][col] = v.Value
		mask[row][col] = false
	}

	return Matrix{Xs: xs, Ys: ys, Values: values, Mask: mask}
}

func uniqueSorted(recs []CellRecord, coord func(CellRecord) float64) []float64 {
	seen := make(map[float64]struct{}, len(recs))
	var vals []float64
	for _, rec := range recs {
		v := coord(rec)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	return vals
}
