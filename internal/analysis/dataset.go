package analysis

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// PreviewRows is the hard cap on rows copied into ParsedDataset.RawData.
const PreviewRows = 100

// Summary holds dataset-level figures derived from the columns and rows.
type Summary struct {
	RowCount      int    `json:"rowCount"`
	ColumnCount   int    `json:"columnCount"`
	MissingCells  int    `json:"missingCells"`
	DuplicateRows int    `json:"duplicateRows"`
	MemoryUsage   string `json:"memoryUsage"`
}

// ParsedDataset is the result of one analysis. It is never modified after
// Assemble returns it.
type ParsedDataset struct {
	Summary      Summary       `json:"summary"`
	Columns      []ColumnStat  `json:"columns"`
	Correlations []Correlation `json:"correlations"`
	RawData      [][]Cell      `json:"rawData"`
	Headers      []string      `json:"headers"`
}

// Analyzer runs parse, inference, statistics and correlation for a single
// input. The zero value analyzes comma-separated text and logs to the
// logrus standard logger.
type Analyzer struct {
	// Delimiter separates CSV fields; 0 means ','.
	Delimiter rune
	Logger    *logrus.Logger
}

func (a *Analyzer) log() *logrus.Logger {
	if a == nil || a.Logger == nil {
		return logrus.StandardLogger()
	}
	return a.Logger
}

// Analyze parses csvText and assembles a dataset from it using a default
// Analyzer.
func Analyze(csvText string) (*ParsedDataset, error) {
	return (&Analyzer{}).Analyze(csvText)
}

// Analyze parses csvText and assembles a dataset from it.
func (a *Analyzer) Analyze(csvText string) (*ParsedDataset, error) {
	return a.AnalyzeReader(strings.NewReader(csvText))
}

// AnalyzeReader reads all of src as CSV and assembles a dataset from it.
func (a *Analyzer) AnalyzeReader(src io.Reader) (*ParsedDataset, error) {
	var delim rune
	if a != nil {
		delim = a.Delimiter
	}
	t, err := ReadCSV(src, delim)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeTable(t)
}

// AnalyzeTable assembles a dataset from an already parsed table.
func (a *Analyzer) AnalyzeTable(t *Table) (*ParsedDataset, error) {
	if t == nil {
		return nil, inputError("no table", nil)
	}
	start := time.Now()
	ds, err := Assemble(t.Headers, t.Rows)
	if err != nil {
		a.log().WithError(err).Debug("analysis rejected")
		return nil, err
	}
	a.log().WithFields(logrus.Fields{
		"rows":         ds.Summary.RowCount,
		"columns":      ds.Summary.ColumnCount,
		"correlations": len(ds.Correlations),
		"elapsed":      time.Since(start).String(),
	}).Debug("dataset analyzed")
	return ds, nil
}

// Assemble computes every column statistic, the correlation list and the
// summary for rows aligned to headers. It fails with an InputFormatError
// when there are no rows or no columns.
func Assemble(headers []string, rows [][]Cell) (*ParsedDataset, error) {
	if len(headers) == 0 {
		return nil, inputError("no columns", nil)
	}
	if len(rows) == 0 {
		return nil, inputError("no data rows", nil)
	}

	ncol := len(headers)
	data := make([][]Cell, ncol)
	for j := range data {
		col := make([]Cell, len(rows))
		for i, row := range rows {
			if j < len(row) {
				col[i] = row[j]
			}
		}
		data[j] = col
	}

	ds := &ParsedDataset{
		Headers: append([]string(nil), headers...),
		Columns: make([]ColumnStat, ncol),
	}
	missing := 0
	for j, h := range headers {
		ds.Columns[j] = ComputeColumnStats(h, data[j], InferType(data[j]))
		missing += ds.Columns[j].Missing
	}
	ds.Correlations = Correlate(ds.Columns, data)

	dups, size, err := scanRows(headers, rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}

	preview := len(rows)
	if preview > PreviewRows {
		preview = PreviewRows
	}
	ds.RawData = make([][]Cell, preview)
	for i := 0; i < preview; i++ {
		r := make([]Cell, ncol)
		copy(r, rows[i])
		ds.RawData[i] = r
	}

	ds.Summary = Summary{
		RowCount:      len(rows),
		ColumnCount:   ncol,
		MissingCells:  missing,
		DuplicateRows: dups,
		MemoryUsage:   FormatMemory(size),
	}
	return ds, nil
}

// scanRows encodes every row once, counting exact duplicates and the byte
// size of the whole row set rendered as a JSON array.
func scanRows(headers []string, rows [][]Cell) (dups int, size int, err error) {
	enc, err := newRowEncoder(headers)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]struct{}, len(rows))
	var buf []byte
	size = 2 // []
	for i, row := range rows {
		if buf, err = enc.appendRow(buf[:0], row); err != nil {
			return 0, 0, err
		}
		if i > 0 {
			size++ // ,
		}
		size += len(buf)
		if _, ok := seen[string(buf)]; ok {
			dups++
			continue
		}
		seen[string(buf)] = struct{}{}
	}
	return dups, size, nil
}

// FormatMemory buckets a byte count into bytes, KB or MB.
func FormatMemory(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}

// Column returns the statistics of the named column.
func (d *ParsedDataset) Column(name string) (ColumnStat, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStat{}, false
}

// ColumnsOfType lists column names with the given type, in header order.
func (d *ParsedDataset) ColumnsOfType(t ColumnType) []string {
	var out []string
	for _, c := range d.Columns {
		if c.Type == t {
			out = append(out, c.Name)
		}
	}
	return out
}
