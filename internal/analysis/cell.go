package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CellKind tags the dynamic type of a parsed cell.
type CellKind uint8

const (
	KindNull CellKind = iota
	KindNumber
	KindString
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	default:
		return "null"
	}
}

// Cell is a single parsed CSV value. Exactly one of Num, Str, Bool is
// meaningful, selected by Kind.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
}

// Null is the missing cell.
var Null = Cell{}

func NumberCell(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }
func StringCell(s string) Cell  { return Cell{Kind: KindString, Str: s} }
func BoolCell(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }

// Missing reports whether the cell counts as a missing value: null or the
// empty string.
func (c Cell) Missing() bool {
	return c.Kind == KindNull || (c.Kind == KindString && c.Str == "")
}

// String returns the canonical text of the cell. Numbers use the shortest
// round-trip form, so NumberCell(1) and StringCell("1") share a key.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return formatNumber(c.Num)
	case KindString:
		return c.Str
	case KindBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// Float returns the numeric reading of the cell and whether it is a finite
// number. Strings are parsed with parseNumber; booleans read as 1 and 0.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0, false
		}
		return c.Num, true
	case KindString:
		return parseNumber(c.Str)
	case KindBool:
		if c.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// MarshalJSON encodes the cell as its natural JSON scalar.
func (c Cell) MarshalJSON() ([]byte, error) {
	return appendCellJSON(nil, c)
}

// maxExactFloat bounds the numbers the parser turns into KindNumber; larger
// literals stay strings so they keep every digit.
const maxExactFloat = 1 << 53

var floatLiteral = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// ParseCell applies dynamic typing to a raw CSV field.
func ParseCell(raw string) Cell {
	switch raw {
	case "":
		return Null
	case "true", "TRUE":
		return BoolCell(true)
	case "false", "FALSE":
		return BoolCell(false)
	}
	if floatLiteral.MatchString(raw) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && math.Abs(f) < maxExactFloat {
			return NumberCell(f)
		}
	}
	return StringCell(raw)
}

var decimalLiteral = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// parseNumber reads s as a finite number without any locale handling.
// Leading and trailing whitespace is ignored, 0x/0o/0b prefixes are
// accepted, and blank input or non-finite results are rejected.
func parseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}
	if len(t) > 2 && t[0] == '0' {
		base := 0
		switch t[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(t[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}
	if !decimalLiteral.MatchString(t) {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// formatNumber renders f the way a browser prints a number: integers without
// a fraction, exponent form outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + string(sign) + exp
}
