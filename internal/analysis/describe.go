package analysis

import (
	"fmt"
	"strings"
)

// Describe writes a short prose overview of the dataset: its shape, the
// numeric and categorical columns, the strongest correlation and the share
// of missing cells.
func Describe(d *ParsedDataset) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "This dataset contains %d records with %d columns. ", d.Summary.RowCount, d.Summary.ColumnCount)
	if cols := d.ColumnsOfType(TypeNumeric); len(cols) > 0 {
		fmt.Fprintf(&b, "It includes numeric data for %s. ", strings.Join(cols, ", "))
	}
	if cols := d.ColumnsOfType(TypeCategorical); len(cols) > 0 {
		fmt.Fprintf(&b, "It contains categorical variables such as %s. ", strings.Join(cols, ", "))
	}
	if len(d.Correlations) > 0 {
		top := SortedCorrelations(d.Correlations)[0]
		fmt.Fprintf(&b, "The strongest relationship appears to be between %s and %s (correlation: %.3f). ", top.Column1, top.Column2, top.Value)
	}
	if d.Summary.MissingCells > 0 {
		cells := d.Summary.RowCount * d.Summary.ColumnCount
		pct := float64(d.Summary.MissingCells) * 100 / float64(cells)
		fmt.Fprintf(&b, "There are some missing values (%.2f%% of cells). ", pct)
	}
	return strings.TrimSpace(b.String())
}

// DefaultPageSize is the number of preview rows per page.
const DefaultPageSize = 10

// FilterRows keeps the rows with at least one cell whose text contains term,
// ignoring case. Missing cells never match. An empty term keeps every row.
func FilterRows(rows [][]Cell, term string) [][]Cell {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)
	var out [][]Cell
	for _, row := range rows {
		for _, c := range row {
			if c.Kind == KindNull {
				continue
			}
			if strings.Contains(strings.ToLower(c.String()), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// PageInfo describes one page of preview rows.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalRows  int `json:"totalRows"`
	TotalPages int `json:"totalPages"`
	// First and Last are 1-based row positions on this page; both are 0 on
	// an empty page.
	First int `json:"first"`
	Last  int `json:"last"`
}

// Paginate returns the rows of the requested 1-based page. page is clamped
// into range and perPage <= 0 falls back to DefaultPageSize.
func Paginate(rows [][]Cell, page, perPage int) ([][]Cell, PageInfo) {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	info := PageInfo{PerPage: perPage, TotalRows: len(rows)}
	info.TotalPages = (len(rows) + perPage - 1) / perPage
	info.Page = min(max(page, 1), max(info.TotalPages, 1))
	page = info.Page
	start := (page - 1) * perPage
	if start >= len(rows) {
		return nil, info
	}
	end := min(start+perPage, len(rows))
	info.First, info.Last = start+1, end
	return rows[start:end], info
}
