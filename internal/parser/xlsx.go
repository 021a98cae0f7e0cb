package parser

import (
	"io"
	"strings"

	"github.com/KaramelBytes/csvscope/internal/analysis"
)

type xlsxParser struct{}

func (xlsxParser) Name() string { return "xlsx" }

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxParser) Parse(r io.Reader, opt Options) (*analysis.Table, error) {
	return analysis.ReadXLSX(r, opt.SheetName, opt.SheetIndex)
}
