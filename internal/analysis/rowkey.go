package analysis

import (
	json "github.com/goccy/go-json"
)

// appendCellJSON appends the JSON scalar for c to dst. Strings are written
// without HTML escaping so the byte count tracks the raw text.
func appendCellJSON(dst []byte, c Cell) ([]byte, error) {
	switch c.Kind {
	case KindNumber:
		if f, ok := c.Float(); ok {
			return append(dst, formatNumber(f)...), nil
		}
		return append(dst, "null"...), nil
	case KindString:
		b, err := json.MarshalNoEscape(c.Str)
		if err != nil {
			return dst, err
		}
		return append(dst, b...), nil
	case KindBool:
		if c.Bool {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	default:
		return append(dst, "null"...), nil
	}
}

// rowEncoder renders rows as JSON objects keyed by header, in header order.
// The encoded object is both the duplicate-detection key and the unit of the
// memory estimate.
type rowEncoder struct {
	keys [][]byte // pre-encoded `"header":`
}

func newRowEncoder(headers []string) (*rowEncoder, error) {
	e := &rowEncoder{keys: make([][]byte, len(headers))}
	for i, h := range headers {
		b, err := json.MarshalNoEscape(h)
		if err != nil {
			return nil, err
		}
		e.keys[i] = append(b, ':')
	}
	return e, nil
}

func (e *rowEncoder) appendRow(dst []byte, row []Cell) ([]byte, error) {
	dst = append(dst, '{')
	var err error
	for i, key := range e.keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, key...)
		c := Null
		if i < len(row) {
			c = row[i]
		}
		if dst, err = appendCellJSON(dst, c); err != nil {
			return dst, err
		}
	}
	return append(dst, '}'), nil
}
