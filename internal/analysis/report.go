package analysis

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ReportOptions controls the Markdown rendering of a dataset.
type ReportOptions struct {
	// Name is printed as the file line when set.
	Name string
	// SampleRows limits the preview table; 0 omits it.
	SampleRows int
	// TopCorrelations limits the correlation list; 0 lists every pair.
	TopCorrelations int
}

// DefaultReportOptions returns reasonable defaults for terminal output.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{SampleRows: 5, TopCorrelations: 10}
}

// Markdown renders a compact report of the dataset.
func (d *ParsedDataset) Markdown(opt ReportOptions) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if opt.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", opt.Name)
	}
	s := d.Summary
	fmt.Fprintf(&b, "Rows: %s\n", humanize.Comma(int64(s.RowCount)))
	fmt.Fprintf(&b, "Columns: %d\n", s.ColumnCount)
	fmt.Fprintf(&b, "Missing cells: %s\n", humanize.Comma(int64(s.MissingCells)))
	fmt.Fprintf(&b, "Duplicate rows: %s\n", humanize.Comma(int64(s.DuplicateRows)))
	fmt.Fprintf(&b, "Memory: %s\n", s.MemoryUsage)
	if desc := Describe(d); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range d.Columns {
		missPct := 0.0
		if c.Count > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(c.Count)
		}
		fmt.Fprintf(&b, "- %s: %s (unique %d, missing %.1f%%)", safeName(c.Name), c.Type, c.Unique, missPct)
		switch c.Type {
		case TypeNumeric:
			fmt.Fprintf(&b, ": min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g",
				num(c.Min), num(c.Max), deref(c.Mean), deref(c.Median), deref(c.Std))
		case TypeCategorical, TypeBoolean:
			if len(c.Categories) > 0 {
				b.WriteString(": ")
				for i, kv := range c.Categories {
					if i > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s(%d)", safeVal(kv.Value), kv.Count)
				}
			}
		default:
			if c.Mode != nil {
				fmt.Fprintf(&b, ": mode %s", safeVal(c.Mode.String()))
			}
		}
		b.WriteString("\n")
	}

	if len(d.Correlations) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		pairs := SortedCorrelations(d.Correlations)
		if opt.TopCorrelations > 0 && len(pairs) > opt.TopCorrelations {
			pairs = pairs[:opt.TopCorrelations]
		}
		for _, p := range pairs {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f (%s)\n", p.Column1, p.Column2, p.Value, CorrelationStrength(p.Value))
		}
	}

	if n := min(opt.SampleRows, len(d.RawData)); n > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n\n")
		b.WriteString("| ")
		for i, h := range d.Headers {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n|")
		for range d.Headers {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range d.RawData[:n] {
			b.WriteString("| ")
			for i := range d.Headers {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) && !row[i].Missing() {
					val = row[i].String()
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func num(c *Cell) float64 {
	if c == nil {
		return 0
	}
	f, _ := c.Float()
	return f
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
