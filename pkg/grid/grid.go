// Package grid partitions a 2-D point cloud into fixed-size rectangular
// cells and assembles per-cell metric records into an ordered table, a CSV
// export, and a dense masked matrix for visualization.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/therekim/GeoBioTool/internal/models"
)

// ErrNoValidCells is returned when no cell survives binning and occupancy
// filtering. Like an empty frequency table, this aborts the run.
var ErrNoValidCells = errors.New("no valid points")

// DefaultMinCellPoints is the occupancy threshold: cells with fewer points
// are dropped before any metric computation, keeping height-bin math away
// from tiny samples.
const DefaultMinCellPoints = 20

// CellKey addresses one rectangular cell by grid row and column.
type CellKey struct {
	Row int
	Col int
}

// Grid holds the binned cloud: the extent origin, the cell size, and the
// height values of every occupied cell. A zero CellSize marks the degenerate
// whole-extent grid with its single cell.
type Grid struct {
	MinX     float64
	MinY     float64
	CellSize float64

	cells map[CellKey][]float64
}

// Bin partitions the cloud into cells of the given size. The origin is the
// cloud's minimum x/y; a point lands in row floor((y-minY)/size), column
// floor((x-minX)/size), so a point exactly on a boundary belongs to the cell
// whose lower edge it sits on.
func Bin(points []models.Point, cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %g", cellSize)
	}
	if len(points) == 0 {
		return nil, ErrNoValidCells
	}

	minX, minY := extentOrigin(points)
	g := &Grid{
		MinX:     minX,
		MinY:     minY,
		CellSize: cellSize,
		cells:    make(map[CellKey][]float64),
	}
	for _, p := range points {
		key := CellKey{
			Row: int(math.Floor((p.Y - minY) / cellSize)),
			Col: int(math.Floor((p.X - minX) / cellSize)),
		}
		g.cells[key] = append(g.cells[key], p.Z)
	}
	return g, nil
}

// BinWholeExtent produces the degenerate grid: a single cell at the extent
// origin owning every point. The occupancy threshold still applies.
func BinWholeExtent(points []models.Point) (*Grid, error) {
	if len(points) == 0 {
		return nil, ErrNoValidCells
	}

	minX, minY := extentOrigin(points)
	zs := make([]float64, len(points))
	for i, p := range points {
		zs[i] = p.Z
	}
	return &Grid{
		MinX:  minX,
		MinY:  minY,
		cells: map[CellKey][]float64{{}: zs},
	}, nil
}

func extentOrigin(points []models.Point) (minX, minY float64) {
	minX, minY = points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
	}
	return minX, minY
}

// Filter drops every cell with fewer than min points. It returns
// ErrNoValidCells when nothing survives.
func (g *Grid) Filter(min int) error {
	for key, zs := range g.cells {
		if len(zs) < min {
			delete(g.cells, key)
		}
	}
	if len(g.cells) == 0 {
		return ErrNoValidCells
	}
	return nil
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Keys returns the occupied cell keys in row-major ascending order.
func (g *Grid) Keys() []CellKey {
	keys := make([]CellKey, 0, len(g.cells))
	for key := range g.cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}

// Heights returns the height values of one cell, nil if unoccupied.
func (g *Grid) Heights(key CellKey) []float64 {
	return g.cells[key]
}

// CellOrigin returns the lower-left corner coordinates of a cell.
func (g *Grid) CellOrigin(key CellKey) (xMin, yMin float64) {
	return g.MinX + float64(key.Col)*g.CellSize,
		g.MinY + float64(key.Row)*g.CellSize
}
