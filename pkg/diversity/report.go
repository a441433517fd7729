package diversity

import (
	"fmt"
	"sort"
	"strings"
)

// ClassShare is one report row: a category with its count and proportion.
type ClassShare struct {
	Class      int
	Count      int
	Proportion float64
}

// ByClass returns the table's shares ordered by ascending category id.
func (ft *FrequencyTable) ByClass() []ClassShare {
	shares := make([]ClassShare, 0, len(ft.Counts))
	for _, id := range ft.Classes() {
		shares = append(shares, ClassShare{
			Class:      id,
			Count:      ft.Counts[id],
			Proportion: ft.Proportion(id),
		})
	}
	return shares
}

// ByProportion returns the table's shares ordered by descending proportion,
// ties broken by ascending category id so the ordering is deterministic.
func (ft *FrequencyTable) ByProportion() []ClassShare {
	shares := ft.ByClass()
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Proportion != shares[j].Proportion {
			return shares[i].Proportion > shares[j].Proportion
		}
		return shares[i].Class < shares[j].Class
	})
	return shares
}

// IndexValue is a named index result to print on a report header line.
type IndexValue struct {
	Name  string
	Value float64
}

// FormatReport renders the frequency table and the given index values as the
// two-view text report:
//
//	Total pixels: <int>
//	<Name>: <float4>
//
//	By class (asc):
//	  <id>: <prop4> (<count> pixels)
//
//	By proportion (desc):
//	  <id>: <prop4> (<count> pixels)
func FormatReport(ft *FrequencyTable, indices ...IndexValue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total pixels: %d\n", ft.Total)
	for _, iv := range indices {
		fmt.Fprintf(&b, "%s: %.4f\n", iv.Name, iv.Value)
	}

	b.WriteString("\nBy class (asc):\n")
	for _, s := range ft.ByClass() {
		fmt.Fprintf(&b, "  %d: %.4f (%d pixels)\n", s.Class, s.Proportion, s.Count)
	}

	b.WriteString("\nBy proportion (desc):\n")
	for _, s := range ft.ByProportion() {
		fmt.Fprintf(&b, "  %d: %.4f (%d pixels)\n", s.Class, s.Proportion, s.Count)
	}

	return b.String()
}
