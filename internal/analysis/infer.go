package analysis

import (
	"regexp"
	"strings"
	"time"
)

// ColumnType is the inferred kind of a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeDate        ColumnType = "date"
	TypeBoolean     ColumnType = "boolean"
	TypeText        ColumnType = "text"
	TypeUnknown     ColumnType = "unknown"
)

const (
	// maxCategories caps the distinct values of a categorical column.
	maxCategories = 10
	// maxCategoryRatio caps distinct values relative to the row count.
	maxCategoryRatio = 0.2
)

var numericDate = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}(?: \d{1,2}:\d{1,2}(?::\d{1,2})?)?$`)

// dateLayouts is the fixed set of calendar formats accepted in addition to
// numericDate. None depend on the local time zone or locale.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// InferType classifies a column. Rules are tried in order: unknown when no
// value is present, then boolean, numeric, date, categorical, and text as
// the fallback. The categorical ratio is measured against len(values),
// missing cells included.
func InferType(values []Cell) ColumnType {
	present := make([]Cell, 0, len(values))
	for _, v := range values {
		if !v.Missing() {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return TypeUnknown
	}
	if all(present, isBoolean) {
		return TypeBoolean
	}
	if all(present, isNumeric) {
		return TypeNumeric
	}
	if all(present, isDate) {
		return TypeDate
	}
	distinct := make(map[string]struct{}, maxCategories+1)
	for _, v := range present {
		distinct[v.String()] = struct{}{}
		if len(distinct) > maxCategories {
			break
		}
	}
	if n := len(distinct); n <= maxCategories && float64(n) <= float64(len(values))*maxCategoryRatio {
		return TypeCategorical
	}
	return TypeText
}

func all(cells []Cell, pred func(Cell) bool) bool {
	for _, c := range cells {
		if !pred(c) {
			return false
		}
	}
	return true
}

func isBoolean(c Cell) bool {
	switch c.Kind {
	case KindBool:
		return true
	case KindString:
		return c.Str == "true" || c.Str == "false"
	}
	return false
}

func isNumeric(c Cell) bool {
	_, ok := c.Float()
	return ok
}

func isDate(c Cell) bool {
	s := c.String()
	if numericDate.MatchString(s) {
		return true
	}
	_, ok := parseDate(s)
	return ok
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
