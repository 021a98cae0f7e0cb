package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(vals ...float64) []Cell {
	out := make([]Cell, len(vals))
	for i, v := range vals {
		out[i] = NumberCell(v)
	}
	return out
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func TestComputeColumnStatsNumeric(t *testing.T) {
	st := ComputeColumnStats("score", numbers(2, 4, 4, 4, 5, 5, 7, 9), TypeNumeric)

	assert.Equal(t, "score", st.Name)
	assert.Equal(t, TypeNumeric, st.Type)
	assert.Equal(t, 8, st.Count)
	assert.Equal(t, 0, st.Missing)
	assert.Equal(t, 5, st.Unique)
	require.NotNil(t, st.Mode)
	assert.Equal(t, NumberCell(4), *st.Mode)

	require.NotNil(t, st.Mean)
	assert.InDelta(t, 5.0, *st.Mean, 1e-12)
	require.NotNil(t, st.Std)
	assert.InDelta(t, 2.0, *st.Std, 1e-12, "population std divides by n")
	require.NotNil(t, st.Median)
	assert.InDelta(t, 4.5, *st.Median, 1e-12)
	assert.Equal(t, NumberCell(2), *st.Min)
	assert.Equal(t, NumberCell(9), *st.Max)
	assert.Len(t, st.Histogram, HistogramBins)
	assert.Equal(t, 8, sum(st.Histogram))
	assert.Nil(t, st.Categories)
}

func TestMedian(t *testing.T) {
	even := ComputeColumnStats("x", numbers(4, 1, 3, 2), TypeNumeric)
	assert.Equal(t, 2.5, *even.Median)
	odd := ComputeColumnStats("x", numbers(3, 1, 2), TypeNumeric)
	assert.Equal(t, 2.0, *odd.Median)
}

func TestHistogramBins(t *testing.T) {
	st := ComputeColumnStats("x", numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), TypeNumeric)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, st.Histogram)

	skewed := ComputeColumnStats("x", numbers(0, 0, 0, 100), TypeNumeric)
	assert.Equal(t, []int{3, 0, 0, 0, 0, 0, 0, 0, 0, 1}, skewed.Histogram, "max lands in the last bin")
}

func TestNumericStatsSpanningFloatRange(t *testing.T) {
	st := ComputeColumnStats("x", numbers(-1e308, 1.5e308), TypeNumeric)
	assert.InEpsilon(t, 0.25e308, *st.Mean, 1e-12)
	assert.InEpsilon(t, 0.25e308, *st.Median, 1e-12)
	assert.InEpsilon(t, 1.25e308, *st.Std, 1e-12)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}, st.Histogram)
	assert.Equal(t, 2, sum(st.Histogram))
}

func TestZeroVarianceColumn(t *testing.T) {
	st := ComputeColumnStats("flat", append(numbers(7, 7, 7), Null), TypeNumeric)
	assert.Equal(t, 1, st.Missing)
	assert.Equal(t, 0.0, *st.Std)
	assert.False(t, math.IsNaN(*st.Std))
	assert.Equal(t, []int{3, 0, 0, 0, 0, 0, 0, 0, 0, 0}, st.Histogram)
	assert.Equal(t, 7.0, *st.Mean)
}

func TestStdZeroOnlyWhenConstant(t *testing.T) {
	for _, vals := range [][]float64{{0.1, 0.1, 0.1}, {1e9, 1e9}, {-3}} {
		st := ComputeColumnStats("x", numbers(vals...), TypeNumeric)
		assert.Equal(t, 0.0, *st.Std, "%v", vals)
	}
	for _, vals := range [][]float64{{0.1, 0.2}, {1, 1, 1, 1.0000001}, {-5, 5}} {
		st := ComputeColumnStats("x", numbers(vals...), TypeNumeric)
		assert.Greater(t, *st.Std, 0.0, "%v", vals)
	}
}

func TestEmptyNumericColumnIsDefined(t *testing.T) {
	st := ComputeColumnStats("none", []Cell{Null, StringCell("")}, TypeNumeric)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, 2, st.Missing)
	assert.Equal(t, 0, st.Unique)
	assert.Nil(t, st.Mode)
	assert.Equal(t, 0.0, *st.Mean)
	assert.Equal(t, 0.0, *st.Std)
	assert.Equal(t, 0, sum(st.Histogram))
}

func TestModeCollapsesNumberAndString(t *testing.T) {
	values := []Cell{NumberCell(1), StringCell("1"), NumberCell(2)}
	st := ComputeColumnStats("x", values, TypeNumeric)
	assert.Equal(t, 2, st.Unique)
	assert.Equal(t, NumberCell(1), *st.Mode)
}

func TestModeTieKeepsFirstSeen(t *testing.T) {
	st := ComputeColumnStats("c", cells("b", "a", "a", "b", "c"), TypeCategorical)
	require.NotNil(t, st.Mode)
	assert.Equal(t, StringCell("b"), *st.Mode)
	assert.Equal(t, []CategoryCount{{"b", 2}, {"a", 2}, {"c", 1}}, st.Categories)
}

func TestCategoricalStats(t *testing.T) {
	st := ComputeColumnStats("color", cells("red", "", "blue", "red", "green", "red", "blue"), TypeCategorical)
	assert.Equal(t, 7, st.Count)
	assert.Equal(t, 1, st.Missing)
	assert.Equal(t, 3, st.Unique)
	assert.Equal(t, []CategoryCount{{"red", 3}, {"blue", 2}, {"green", 1}}, st.Categories)
	assert.Equal(t, StringCell("red"), *st.Min, "first non-missing raw value")
	assert.Equal(t, StringCell("blue"), *st.Max, "last non-missing raw value")
	assert.Nil(t, st.Mean)
	assert.Nil(t, st.Histogram)
}

func TestBooleanStats(t *testing.T) {
	st := ComputeColumnStats("flag", cells("true", "false", "true", ""), TypeBoolean)
	assert.Equal(t, []CategoryCount{{"true", 2}, {"false", 1}}, st.Categories)
	assert.Equal(t, StringCell("true"), *st.Mode)
	assert.Equal(t, BoolCell(true), *st.Min)
	assert.Equal(t, BoolCell(true), *st.Max)
}

func TestTextAndDateCarryBaseFieldsOnly(t *testing.T) {
	for _, typ := range []ColumnType{TypeText, TypeDate, TypeUnknown} {
		st := ComputeColumnStats("x", cells("2024-01-01", "2024-01-02", "2024-01-01"), typ)
		assert.Equal(t, 3, st.Count)
		assert.Equal(t, 2, st.Unique)
		assert.Equal(t, StringCell("2024-01-01"), *st.Mode)
		assert.Nil(t, st.Mean)
		assert.Nil(t, st.Min)
		assert.Nil(t, st.Categories)
		assert.Nil(t, st.Histogram)
	}
}
