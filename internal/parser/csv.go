package parser

import (
	"io"
	"strings"

	"github.com/KaramelBytes/csvscope/internal/analysis"
)

type csvParser struct{}

func (csvParser) Name() string { return "csv" }

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Parse reads delimited text; a zero opt.Delimiter means a comma.
func (csvParser) Parse(r io.Reader, opt Options) (*analysis.Table, error) {
	return analysis.ReadCSV(r, opt.Delimiter)
}

// withDefaultDelimiter picks tabs for .tsv names unless a delimiter is set.
func withDefaultDelimiter(filename string, opt Options) Options {
	if opt.Delimiter == 0 && strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		opt.Delimiter = '\t'
	}
	return opt
}
