package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one worksheet of a workbook into a Table. If sheetName is
// empty, sheetIndex (1-based) selects the sheet; values <= 0 mean the first.
// Cells are read as formatted text and typed the same way as CSV fields.
func ReadXLSX(src io.Reader, sheetName string, sheetIndex int) (*Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, inputError("open xlsx", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, inputError("workbook has no sheets", nil)
	}
	sheet := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, inputError(fmt.Sprintf("sheet %q not found (available: %s)", sheetName, strings.Join(sheets, ", ")), nil)
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, inputError(fmt.Sprintf("sheet index %d out of range (workbook has %d)", idx, len(sheets)), nil)
		}
		sheet = sheets[idx-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, inputError(fmt.Sprintf("read sheet %q", sheet), err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, inputError("no header row", nil)
	}
	t := &Table{Headers: make([]string, len(rows[0]))}
	copy(t.Headers, rows[0])
	if err := checkHeaders(t.Headers); err != nil {
		return nil, err
	}
	ncol := len(t.Headers)
	for _, rec := range rows[1:] {
		if len(rec) == 0 {
			continue
		}
		row := make([]Cell, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = ParseCell(rec[j])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
