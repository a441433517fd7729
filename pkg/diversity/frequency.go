// Package diversity computes class-frequency diversity indices
// (Shannon–Wiener and Simpson) over a classified raster sample and renders
// them as a two-view text report.
package diversity

import (
	"errors"
	"sort"

	"github.com/therekim/GeoBioTool/pkg/classes"
)

// ErrNoValidPixels is returned when filtering leaves no sample to count.
// This aborts the whole run: an empty table has no defined proportions.
var ErrNoValidPixels = errors.New("no valid pixels")

// FrequencyTable maps category ids to occurrence counts. Total is the sum of
// all counts and is always positive for a built table.
type FrequencyTable struct {
	Counts map[int]int
	Total  int
}

// BuildFrequencyTable reduces a flat sample sequence to per-category counts.
//
// With a selector, a sample is retained when its truncated integer category
// is a member. Without one, samples strictly inside the default validity
// window (0, 255) are retained; 0 and 255 themselves are conventional
// no-data/overflow codes and are excluded. Non-integral retained values
// count toward their truncated category id.
func BuildFrequencyTable(samples []float64, sel *classes.Selector) (*FrequencyTable, error) {
	counts := make(map[int]int)
	total := 0
	for _, v := range samples {
		if sel != nil {
			if !sel.Contains(int(v)) {
				continue
			}
		} else if v <= 0 || v >= 255 {
			continue
		}
		counts[int(v)]++
		total++
	}
	if total == 0 {
		return nil, ErrNoValidPixels
	}
	return &FrequencyTable{Counts: counts, Total: total}, nil
}

// Proportion returns the share of the given category, 0 if unseen.
func (ft *FrequencyTable) Proportion(id int) float64 {
	return float64(ft.Counts[id]) / float64(ft.Total)
}

// Classes returns the observed category ids in ascending order.
func (ft *FrequencyTable) Classes() []int {
	ids := make([]int, 0, len(ft.Counts))
	for id := range ft.Counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
