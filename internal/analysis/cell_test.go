package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		want Cell
	}{
		{"", Null},
		{"true", BoolCell(true)},
		{"FALSE", BoolCell(false)},
		{"True", StringCell("True")},
		{"42", NumberCell(42)},
		{"-3.5", NumberCell(-3.5)},
		{".5", NumberCell(0.5)},
		{"1e3", NumberCell(1000)},
		{" 7 ", NumberCell(7)},
		{"+5", StringCell("+5")},
		{"0x1A", StringCell("0x1A")},
		{"9007199254740993", StringCell("9007199254740993")},
		{"abc", StringCell("abc")},
		{"2024-01-01", StringCell("2024-01-01")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.raw))
		})
	}
}

func TestCellMissing(t *testing.T) {
	assert.True(t, Null.Missing())
	assert.True(t, StringCell("").Missing())
	assert.False(t, StringCell(" ").Missing())
	assert.False(t, NumberCell(0).Missing())
	assert.False(t, BoolCell(false).Missing())
}

func TestCellStringCollapsesNumbers(t *testing.T) {
	assert.Equal(t, StringCell("1").String(), NumberCell(1).String())
	assert.Equal(t, "2.5", NumberCell(2.5).String())
	assert.Equal(t, "0", NumberCell(-0.0).String())
	assert.Equal(t, "true", BoolCell(true).String())
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		1:        "1",
		-12.25:   "-12.25",
		1e21:     "1e+21",
		1.5e-7:   "1.5e-7",
		0.000001: "0.000001",
		123456.7: "123456.7",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in), "formatNumber(%v)", in)
	}
}

func TestParseNumber(t *testing.T) {
	valid := map[string]float64{
		"1":      1,
		" 2.5 ":  2.5,
		"+5":     5,
		"-1e2":   -100,
		"0x1A":   26,
		"0b101":  5,
		"0o17":   15,
		"3.":     3,
		".25":    0.25,
		"1E-2":   0.01,
		"000012": 12,
	}
	for in, want := range valid {
		got, ok := parseNumber(in)
		require.True(t, ok, "parseNumber(%q)", in)
		assert.InDelta(t, want, got, 1e-12, "parseNumber(%q)", in)
	}
	for _, in := range []string{"", "   ", "abc", "1,5", "Infinity", "NaN", "1e999", "0xZZ", "1.2.3", "--1"} {
		_, ok := parseNumber(in)
		assert.False(t, ok, "parseNumber(%q) should fail", in)
	}
}

func TestCellFloat(t *testing.T) {
	f, ok := StringCell("12").Float()
	require.True(t, ok)
	assert.Equal(t, 12.0, f)

	f, ok = BoolCell(true).Float()
	require.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = Null.Float()
	assert.False(t, ok)
	_, ok = StringCell("twelve").Float()
	assert.False(t, ok)
}

func TestCellMarshalJSON(t *testing.T) {
	tests := []struct {
		in   Cell
		want string
	}{
		{Null, "null"},
		{NumberCell(3), "3"},
		{NumberCell(0.25), "0.25"},
		{StringCell(`a "b" <c>`), `"a \"b\" <c>"`},
		{BoolCell(false), "false"},
	}
	for _, tt := range tests {
		b, err := tt.in.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(b))
	}
}
