package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPearson(t *testing.T) {
	x := numbers(1, 2, 3, 4, 5)
	assert.Equal(t, 1.0, Pearson(x, numbers(2, 4, 6, 8, 10)))
	assert.Equal(t, -1.0, Pearson(x, numbers(10, 8, 6, 4, 2)))
	assert.Equal(t, 1.0, Pearson(x, x), "self correlation of a varying column")
	assert.Equal(t, 0.0, Pearson(numbers(3, 3, 3), numbers(3, 3, 3)), "constant column has no variance")
	assert.Equal(t, 0.0, Pearson(numbers(1, 2, 3), numbers(5, 5, 5)))
}

func TestPearsonSymmetric(t *testing.T) {
	a := numbers(1, 4, 2, 8, 5, 7)
	b := numbers(3, 1, 4, 1, 5, 9)
	assert.Equal(t, Pearson(a, b), Pearson(b, a))
	r := Pearson(a, b)
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestPearsonRoundsToThreeDecimals(t *testing.T) {
	// r = 0.8 exactly for this pair; a noisier one must still land on a
	// multiple of 0.001.
	r := Pearson(numbers(1, 2, 3, 4, 5), numbers(2, 1, 4, 3, 5))
	assert.InDelta(t, 0.8, r, 1e-12)
	noisy := Pearson(numbers(1, 2, 3, 4, 5, 6), numbers(1.3, 2.9, 2.2, 4.8, 4.1, 7.7))
	assert.InDelta(t, noisy*1000, float64(int64(noisy*1000+0.5)), 1e-6)
}

func TestPearsonPairwiseExclusion(t *testing.T) {
	a := []Cell{NumberCell(1), Null, NumberCell(3), NumberCell(4), StringCell("")}
	b := []Cell{NumberCell(2), NumberCell(100), StringCell("n/a"), NumberCell(8), NumberCell(-50)}
	// Only rows 0 and 3 have numbers on both sides.
	assert.Equal(t, 1.0, Pearson(a, b))

	none := []Cell{Null, Null}
	assert.Equal(t, 0.0, Pearson(none, numbers(1, 2)))
}

func TestCorrelatePairs(t *testing.T) {
	cols := []ColumnStat{
		{Name: "a", Type: TypeNumeric},
		{Name: "label", Type: TypeCategorical},
		{Name: "b", Type: TypeNumeric},
		{Name: "c", Type: TypeNumeric},
	}
	data := [][]Cell{
		numbers(1, 2, 3, 4),
		cells("x", "y", "x", "y"),
		numbers(10, 20, 30, 40),
		numbers(4, 3, 2, 1),
	}
	got := Correlate(cols, data)
	require.Len(t, got, 3, "C(3,2) pairs")
	assert.Equal(t, []Correlation{
		{Column1: "a", Column2: "b", Value: 1},
		{Column1: "a", Column2: "c", Value: -1},
		{Column1: "b", Column2: "c", Value: -1},
	}, got)
}

func TestCorrelateNeedsTwoNumericColumns(t *testing.T) {
	cols := []ColumnStat{{Name: "a", Type: TypeNumeric}, {Name: "t", Type: TypeText}}
	got := Correlate(cols, [][]Cell{numbers(1, 2), cells("p", "q")})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Correlate(nil, nil))
}

func TestSortedCorrelations(t *testing.T) {
	in := []Correlation{
		{"a", "b", 0.2},
		{"a", "c", -0.9},
		{"b", "c", 0.5},
		{"b", "d", -0.2},
	}
	got := SortedCorrelations(in)
	assert.Equal(t, []Correlation{
		{"a", "c", -0.9},
		{"b", "c", 0.5},
		{"a", "b", 0.2},
		{"b", "d", -0.2},
	}, got)
	assert.Equal(t, 0.2, in[0].Value, "input is left untouched")
}

func TestCorrelationStrength(t *testing.T) {
	tests := map[float64]string{
		0.95:  "Very Strong",
		-0.8:  "Very Strong",
		0.7:   "Strong",
		-0.45: "Moderate",
		0.2:   "Weak",
		0.19:  "Very Weak / None",
		0:     "Very Weak / None",
	}
	for r, want := range tests {
		assert.Equal(t, want, CorrelationStrength(r), "r=%v", r)
	}
}
