package diversity

import "math"

// Kind identifies a diversity index.
type Kind int

const (
	// ShannonWiener is the entropy-based index H = -Σ p ln p.
	ShannonWiener Kind = iota

	// SimpsonIndex is the probability-of-difference index D = 1 - Σ p².
	SimpsonIndex
)

// Name returns the label used on report index lines.
func (k Kind) Name() string {
	switch k {
	case SimpsonIndex:
		return "Simpson"
	default:
		return "Shannon–Wiener"
	}
}

// Compute evaluates the index over the table.
func (k Kind) Compute(ft *FrequencyTable) float64 {
	if k == SimpsonIndex {
		return Simpson(ft)
	}
	return Shannon(ft)
}

// Shannon computes the Shannon–Wiener index H = -Σ p ln p. Categories with
// zero probability cannot occur in a built table, but the summation skips
// p == 0 anyway to keep ln out of its singularity.
func Shannon(ft *FrequencyTable) float64 {
	h := 0.0
	total := float64(ft.Total)
	for _, count := range ft.Counts {
		p := float64(count) / total
		if p > 0 {
			h -= p * math.Log(p)
		}
	}
	return h
}

// Simpson computes the Simpson index D = 1 - Σ p².
func Simpson(ft *FrequencyTable) float64 {
	sum := 0.0
	total := float64(ft.Total)
	for _, count := range ft.Counts {
		p := float64(count) / total
		sum += p * p
	}
	return 1 - sum
}
