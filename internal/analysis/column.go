package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// HistogramBins is the fixed number of equal-width histogram bins.
const HistogramBins = 10

// ColumnStat captures the inferred type and statistics of one column.
// Numeric fields are set only for numeric columns; Categories only for
// categorical and boolean columns.
type ColumnStat struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Count   int        `json:"count"`
	Missing int        `json:"missing"`
	Unique  int        `json:"unique"`
	Mode    *Cell      `json:"mode,omitempty"`

	Mean      *float64 `json:"mean,omitempty"`
	Median    *float64 `json:"median,omitempty"`
	Std       *float64 `json:"std,omitempty"`
	Min       *Cell    `json:"min,omitempty"`
	Max       *Cell    `json:"max,omitempty"`
	Histogram []int    `json:"histogram,omitempty"`

	Categories []CategoryCount `json:"categories,omitempty"`
}

// CategoryCount is one entry of a column's frequency table.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// frequencies counts values by their canonical string, remembering the
// order in which each key was first seen.
type frequencies struct {
	order  []string
	counts map[string]int
}

func countValues(values []Cell) frequencies {
	f := frequencies{counts: make(map[string]int)}
	for _, v := range values {
		k := v.String()
		if _, ok := f.counts[k]; !ok {
			f.order = append(f.order, k)
		}
		f.counts[k]++
	}
	return f
}

// mode returns the first key whose count beats every earlier key.
func (f frequencies) mode() (string, bool) {
	var best string
	top := 0
	for _, k := range f.order {
		if c := f.counts[k]; c > top {
			best, top = k, c
		}
	}
	return best, top > 0
}

// ComputeColumnStats summarises one column given its inferred type. It never
// fails: empty or constant columns produce zeros rather than NaN.
func ComputeColumnStats(name string, values []Cell, typ ColumnType) ColumnStat {
	present := make([]Cell, 0, len(values))
	for _, v := range values {
		if !v.Missing() {
			present = append(present, v)
		}
	}
	freq := countValues(present)

	st := ColumnStat{
		Name:    name,
		Type:    typ,
		Count:   len(values),
		Missing: len(values) - len(present),
		Unique:  len(freq.order),
	}
	if key, ok := freq.mode(); ok {
		m := StringCell(key)
		if typ == TypeNumeric {
			if f, ok := parseNumber(key); ok {
				m = NumberCell(f)
			}
		}
		st.Mode = &m
	}

	switch typ {
	case TypeNumeric:
		nums := make([]float64, 0, len(present))
		for _, v := range present {
			if f, ok := v.Float(); ok {
				nums = append(nums, f)
			}
		}
		numericStats(&st, nums)
	case TypeCategorical, TypeBoolean:
		cats := make([]CategoryCount, len(freq.order))
		for i, k := range freq.order {
			cats[i] = CategoryCount{Value: k, Count: freq.counts[k]}
		}
		sort.SliceStable(cats, func(i, j int) bool { return cats[i].Count > cats[j].Count })
		st.Categories = cats
		if len(present) > 0 {
			first, last := present[0], present[len(present)-1]
			st.Min, st.Max = &first, &last
		}
	}
	return st
}

func numericStats(st *ColumnStat, nums []float64) {
	var mean, median, std, lo, hi float64
	hist := make([]int, HistogramBins)
	if len(nums) > 0 {
		sorted := make([]float64, len(nums))
		copy(sorted, nums)
		sort.Float64s(sorted)
		lo, hi = sorted[0], sorted[len(sorted)-1]

		// Scale by a power of two so sums near the float limit stay finite.
		_, exp := math.Frexp(math.Max(math.Abs(lo), math.Abs(hi)))
		scaled := make([]float64, len(sorted))
		for i, v := range sorted {
			scaled[i] = math.Ldexp(v, -exp)
		}
		// Errors below only signal empty input, excluded above.
		mean, _ = stats.Mean(scaled)
		median, _ = stats.Median(scaled)
		mean, median = math.Ldexp(mean, exp), math.Ldexp(median, exp)
		if lo != hi {
			std, _ = stats.StandardDeviationPopulation(scaled)
			std = math.Ldexp(std, exp)
		}

		width := (hi - lo) / HistogramBins
		if math.IsInf(width, 0) {
			width = hi/HistogramBins - lo/HistogramBins
		}
		for _, v := range sorted {
			hist[binIndex(v, lo, width)]++
		}
	}
	st.Mean, st.Median, st.Std = &mean, &median, &std
	minCell, maxCell := NumberCell(lo), NumberCell(hi)
	st.Min, st.Max = &minCell, &maxCell
	st.Histogram = hist
}

// binIndex places v into one of HistogramBins bins starting at lo. The top
// edge belongs to the last bin; a zero width sends everything to bin 0.
func binIndex(v, lo, width float64) int {
	if width <= 0 || math.IsNaN(width) {
		return 0
	}
	pos := (v - lo) / width
	if math.IsInf(v-lo, 0) {
		pos = v/width - lo/width
	}
	if math.IsNaN(pos) {
		return 0
	}
	i := int(math.Floor(pos))
	if i < 0 {
		return 0
	}
	if i >= HistogramBins {
		return HistogramBins - 1
	}
	return i
}
