// Package pointio reads delimited ASCII point tables (CSV/TXT) into point
// clouds, resolving the x/y/z columns through a fixed synonym table.
package pointio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/therekim/GeoBioTool/internal/models"
)

// Accepted header names per axis, case-insensitive, in resolution order.
var (
	xSynonyms = []string{"x", "x_coord", "easting"}
	ySynonyms = []string{"y", "y_coord", "northing"}
	zSynonyms = []string{"z", "z_coord", "elevation", "height"}
)

// MissingColumnsError reports that the header did not resolve all of the
// required x/y/z columns under any supported delimiter.
type MissingColumnsError struct {
	// Missing lists the unresolved axes ("X", "Y", "Z").
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf(
		"missing X/Y/Z columns (%s unresolved; accepted names: x/x_coord/easting, y/y_coord/northing, z/z_coord/elevation/height)",
		strings.Join(e.Missing, ", "))
}

// splitters are the delimiter candidates tried against the header, in order.
var splitters = []struct {
	name  string
	split func(string) []string
}{
	{"comma", func(s string) []string { return strings.Split(s, ",") }},
	{"tab", func(s string) []string { return strings.Split(s, "\t") }},
	{"semicolon", func(s string) []string { return strings.Split(s, ";") }},
	{"whitespace", strings.Fields},
}

// resolve finds the index of the first field matching any synonym.
func resolve(fields []string, synonyms []string) int {
	for i, f := range fields {
		low := strings.ToLower(strings.TrimSpace(f))
		for _, syn := range synonyms {
			if low == syn {
				return i
			}
		}
	}
	return -1
}

// ReadPoints parses a delimited point table. The first non-comment line is
// the header; the delimiter is sniffed by finding the first candidate under
// which all three coordinate columns resolve. Lines starting with '#' and
// blank lines are skipped. Extra columns are ignored.
func ReadPoints(r io.Reader) ([]models.Point, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading point table: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("point table contains no data")
	}

	header := lines[0]
	var split func(string) []string
	xi, yi, zi := -1, -1, -1
	bestResolved := 0
	for _, cand := range splitters {
		fields := cand.split(header)
		if len(fields) < 3 {
			continue
		}
		x := resolve(fields, xSynonyms)
		y := resolve(fields, ySynonyms)
		z := resolve(fields, zSynonyms)
		if x >= 0 && y >= 0 && z >= 0 {
			split, xi, yi, zi = cand.split, x, y, z
			break
		}
		// Keep the candidate resolving the most axes so the error names
		// only the columns genuinely missing.
		resolved := 0
		for _, idx := range []int{x, y, z} {
			if idx >= 0 {
				resolved++
			}
		}
		if resolved > bestResolved {
			bestResolved = resolved
			xi, yi, zi = x, y, z
		}
	}
	if split == nil {
		var missing []string
		if xi < 0 {
			missing = append(missing, "X")
		}
		if yi < 0 {
			missing = append(missing, "Y")
		}
		if zi < 0 {
			missing = append(missing, "Z")
		}
		return nil, &MissingColumnsError{Missing: missing}
	}

	points := make([]models.Point, 0, len(lines)-1)
	for lineIdx, line := range lines[1:] {
		fields := split(line)
		if len(fields) <= xi || len(fields) <= yi || len(fields) <= zi {
			return nil, fmt.Errorf("data row %d has %d fields, need at least %d",
				lineIdx+1, len(fields), max3(xi, yi, zi)+1)
		}

		x, err := parseCoord(fields[xi], "x", lineIdx+1)
		if err != nil {
			return nil, err
		}
		y, err := parseCoord(fields[yi], "y", lineIdx+1)
		if err != nil {
			return nil, err
		}
		z, err := parseCoord(fields[zi], "z", lineIdx+1)
		if err != nil {
			return nil, err
		}

		points = append(points, models.Point{X: x, Y: y, Z: z})
	}

	return points, nil
}

// ReadPointsFile reads a point table from the named file.
func ReadPointsFile(path string) ([]models.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening point file: %w", err)
	}
	defer f.Close()

	points, err := ReadPoints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

func parseCoord(field, axis string, row int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("data row %d: invalid %s value %q: %w", row, axis, field, err)
	}
	return v, nil
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
