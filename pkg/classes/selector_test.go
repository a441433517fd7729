package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleValuesAndRanges(t *testing.T) {
	sel, err := Parse("1,3-5")
	require.NoError(t, err)
	require.NotNil(t, sel)

	assert.Equal(t, []int{1, 3, 4, 5}, sel.Classes())
	assert.True(t, sel.Contains(4))
	assert.False(t, sel.Contains(2))
}

func TestParseEmptyMeansNoRestriction(t *testing.T) {
	for _, s := range []string{"", "   ", "\t"} {
		sel, err := Parse(s)
		require.NoError(t, err)
		assert.Nil(t, sel, "input %q should mean no restriction", s)
	}
}

func TestParseCollapsesDuplicates(t *testing.T) {
	sel, err := Parse("2,2,1-3,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, sel.Classes())
	assert.Equal(t, 3, sel.Len())
}

func TestParseToleratesWhitespace(t *testing.T) {
	sel, err := Parse(" 1 , 3 - 5 , 9 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5, 9}, sel.Classes())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"descending range", "3-1"},
		{"non-integer token", "a"},
		{"non-integer range start", "a-5"},
		{"non-integer range end", "1-b"},
		{"trailing comma", "1,"},
		{"bare dash", "-"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestSelectorString(t *testing.T) {
	sel, err := Parse("5,1-2")
	require.NoError(t, err)
	assert.Equal(t, "1,2,5", sel.String())
}
