package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Correlation is Pearson's r between two numeric columns, rounded to three
// decimals.
type Correlation struct {
	Column1 string  `json:"column1"`
	Column2 string  `json:"column2"`
	Value   float64 `json:"value"`
}

// Pearson computes the correlation of two aligned columns over the rows where
// both cells hold a number. It returns 0 when no such rows exist or when
// either side has no variance.
func Pearson(a, b []Cell) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, okx := a[i].Float()
		y, oky := b[i].Float()
		if a[i].Missing() || b[i].Missing() || !okx || !oky {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 || sumSquares(xs) == 0 || sumSquares(ys) == 0 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return round3(math.Max(-1, math.Min(1, r)))
}

// sumSquares is the sum of squared deviations from the mean.
func sumSquares(xs []float64) float64 {
	m := stat.Mean(xs, nil)
	var s float64
	for _, x := range xs {
		d := x - m
		s += d * d
	}
	return s
}

func round3(f float64) float64 {
	r := math.Round(f*1000) / 1000
	if r == 0 {
		return 0 // normalise -0
	}
	return r
}

// Correlate returns one Correlation per unordered pair of numeric columns,
// in column order (i < j). columns and data are aligned by index; data holds
// each column's cells.
func Correlate(columns []ColumnStat, data [][]Cell) []Correlation {
	var numeric []int
	for i, c := range columns {
		if c.Type == TypeNumeric {
			numeric = append(numeric, i)
		}
	}
	out := make([]Correlation, 0, len(numeric)*(len(numeric)-1)/2)
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			a, b := numeric[i], numeric[j]
			out = append(out, Correlation{
				Column1: columns[a].Name,
				Column2: columns[b].Name,
				Value:   Pearson(data[a], data[b]),
			})
		}
	}
	return out
}

// SortedCorrelations returns a copy ordered by |r| descending; equal
// magnitudes keep their original order.
func SortedCorrelations(cs []Correlation) []Correlation {
	out := make([]Correlation, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Value) > math.Abs(out[j].Value)
	})
	return out
}

// CorrelationStrength labels the magnitude of r.
func CorrelationStrength(r float64) string {
	switch a := math.Abs(r); {
	case a >= 0.8:
		return "Very Strong"
	case a >= 0.6:
		return "Strong"
	case a >= 0.4:
		return "Moderate"
	case a >= 0.2:
		return "Weak"
	default:
		return "Very Weak / None"
	}
}
