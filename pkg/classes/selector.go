// Package classes parses textual raster class selections such as "1,3-5,9"
// into a concrete set of category ids.
package classes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ParseError reports a malformed token in a class selection string.
type ParseError struct {
	// Token is the offending comma-separated token, trimmed.
	Token string

	// Reason describes why the token was rejected.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid class selector token %q: %s", e.Token, e.Reason)
}

// Selector is an explicit set of raster category ids. A nil Selector means
// "no restriction": downstream filtering falls back to the default validity
// window 0 < v < 255.
type Selector struct {
	set mapset.Set[int]
}

// Parse converts a class selection string into a Selector.
//
// The string is split on commas; each token is either a bare integer or an
// inclusive range "a-b" with a <= b. Duplicates collapse. An empty or
// all-whitespace string returns (nil, nil), meaning no restriction.
func Parse(s string) (*Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	set := mapset.NewThreadUnsafeSet[int]()
	for _, raw := range strings.Split(s, ",") {
		tok := strings.TrimSpace(raw)
		if lo, hi, isRange := strings.Cut(tok, "-"); isRange {
			a, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, &ParseError{Token: tok, Reason: "range start is not an integer"}
			}
			b, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, &ParseError{Token: tok, Reason: "range end is not an integer"}
			}
			if a > b {
				return nil, &ParseError{Token: tok, Reason: fmt.Sprintf("range start %d exceeds end %d", a, b)}
			}
			for v := a; v <= b; v++ {
				set.Add(v)
			}
		} else {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, &ParseError{Token: tok, Reason: "not an integer"}
			}
			set.Add(v)
		}
	}

	return &Selector{set: set}, nil
}

// Contains reports whether the category id is selected.
func (s *Selector) Contains(id int) bool {
	return s.set.Contains(id)
}

// Len returns the number of selected category ids.
func (s *Selector) Len() int {
	return s.set.Cardinality()
}

// Classes returns the selected category ids in ascending order.
func (s *Selector) Classes() []int {
	ids := s.set.ToSlice()
	sort.Ints(ids)
	return ids
}

// String renders the selector as a sorted comma-separated list.
func (s *Selector) String() string {
	ids := s.Classes()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
