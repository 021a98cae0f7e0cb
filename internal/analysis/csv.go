package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is parsed tabular input: a header row and typed records aligned to
// it.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// ReadCSV parses delimited text whose first record is the header. A UTF-8
// byte order mark is dropped, header names are trimmed and blank lines are
// skipped. Short records are padded with Null; extra fields are ignored.
// A delim of 0 means ','.
func ReadCSV(src io.Reader, delim rune) (*Table, error) {
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, inputError("no header row", nil)
		}
		return nil, inputError("read header", err)
	}
	if len(header) == 1 && strings.TrimSpace(header[0]) == "" {
		return nil, inputError("no columns", nil)
	}
	t := &Table{Headers: make([]string, len(header))}
	copy(t.Headers, header)
	if err := checkHeaders(t.Headers); err != nil {
		return nil, err
	}

	ncol := len(t.Headers)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, inputError(fmt.Sprintf("read row %d", len(t.Rows)+1), err)
		}
		row := make([]Cell, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = ParseCell(rec[j])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// checkHeaders trims header names in place and rejects duplicates; a column
// could not be addressed by name otherwise.
func checkHeaders(headers []string) error {
	seen := make(map[string]int, len(headers))
	for i := range headers {
		h := strings.TrimSpace(headers[i])
		headers[i] = h
		if j, ok := seen[h]; ok {
			return inputError(fmt.Sprintf("duplicate header %q in columns %d and %d", h, j+1, i+1), nil)
		}
		seen[h] = i
	}
	return nil
}
