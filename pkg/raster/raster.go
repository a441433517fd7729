// Package raster prepares a decoded single-band classified raster for
// frequency analysis. Decoding the band itself is a collaborator's job; this
// package only normalizes no-data values and flattens the 2-D array, plus a
// minimal plain-text grid reader so the command-line tool can run end to end.
package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Normalize coerces NaN and ±Inf cells to 0 in place. Zero falls outside the
// default validity window, so normalized no-data never reaches a frequency
// table.
func Normalize(band [][]float64) {
	for _, row := range band {
		for i, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[i] = 0
			}
		}
	}
}

// Flatten returns the band's cells as a single row-major sequence.
func Flatten(band [][]float64) []float64 {
	n := 0
	for _, row := range band {
		n += len(row)
	}
	flat := make([]float64, 0, n)
	for _, row := range band {
		flat = append(flat, row...)
	}
	return flat
}

// ReadASCIIGrid parses a whitespace-delimited numeric grid, one raster row
// per line. Blank lines and lines starting with '#' are skipped. All rows
// must have the same width.
func ReadASCIIGrid(r io.Reader) ([][]float64, error) {
	var band [][]float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid raster value %q: %w", lineNo, f, err)
			}
			row[i] = v
		}

		if len(band) > 0 && len(row) != len(band[0]) {
			return nil, fmt.Errorf("line %d: row has %d values, expected %d", lineNo, len(row), len(band[0]))
		}
		band = append(band, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading raster: %w", err)
	}
	if len(band) == 0 {
		return nil, fmt.Errorf("raster input contains no data rows")
	}

	return band, nil
}

// ReadASCIIGridFile reads a grid from the named file.
func ReadASCIIGridFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening raster file: %w", err)
	}
	defer f.Close()

	band, err := ReadASCIIGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return band, nil
}
