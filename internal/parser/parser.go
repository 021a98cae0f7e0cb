package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/csvscope/internal/analysis"
)

// Options tune how tabular input is read.
type Options struct {
	// Delimiter overrides the field separator for delimited text; 0 lets the
	// parser pick it from the file extension.
	Delimiter rune
	// SheetName selects a workbook sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects a workbook sheet by 1-based position when SheetName
	// is empty.
	SheetIndex int
}

// Parser reads one tabular format into an analysis.Table.
type Parser interface {
	Name() string
	CanParse(filename string) bool
	Parse(r io.Reader, opt Options) (*analysis.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a file format no registered parser accepts.
var ErrUnsupported = errors.New("unsupported file format")

// Detect returns the first registered parser accepting filename.
func Detect(filename string) (Parser, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(filename), ErrUnsupported)
}

// Parse reads content with the parser matching filename.
func Parse(filename string, content []byte, opt Options) (*analysis.Table, error) {
	p, err := Detect(filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(bytes.NewReader(content), withDefaultDelimiter(filename, opt))
}

// ParseFile opens path and parses it with the parser matching its extension.
func ParseFile(path string, opt Options) (*analysis.Table, error) {
	p, err := Detect(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()
	return p.Parse(f, withDefaultDelimiter(path, opt))
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}
