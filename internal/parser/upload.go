package parser

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/csvscope/internal/analysis"
)

// ErrTooLarge indicates an upload over the configured size limit.
var ErrTooLarge = errors.New("file too large")

// UploadError reports an upload rejected before or during parsing.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// contentTypes lists the declared media types accepted per parser. Browsers
// send a variety of types for CSV, so an accepted extension is enough on its
// own.
var contentTypes = map[string][]string{
	"csv":  {"text/csv", "text/tab-separated-values", "application/csv", "application/vnd.ms-excel"},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
}

// detectUpload picks a parser from the filename, falling back to the declared
// content type when the name carries no known extension.
func detectUpload(filename, contentType string) (Parser, error) {
	if p, err := Detect(filename); err == nil {
		return p, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		for _, p := range registry {
			for _, ct := range contentTypes[p.Name()] {
				if strings.EqualFold(mt, ct) {
					return p, nil
				}
			}
		}
	}
	return nil, ErrUnsupported
}

// ParseUpload validates and parses an uploaded file. limit is the maximum
// size in bytes; 0 disables the check. Every failure is an *UploadError
// wrapping ErrTooLarge, ErrUnsupported or the parse error.
func ParseUpload(filename, contentType string, data []byte, limit int64, opt Options) (*analysis.Table, error) {
	name := filepath.Base(filename)
	if limit > 0 && int64(len(data)) > limit {
		return nil, &UploadError{Filename: name, Err: fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), limit)}
	}
	p, err := detectUpload(filename, contentType)
	if err != nil {
		return nil, &UploadError{Filename: name, Err: err}
	}
	t, err := p.Parse(bytes.NewReader(data), withDefaultDelimiter(filename, opt))
	if err != nil {
		return nil, &UploadError{Filename: name, Err: err}
	}
	return t, nil
}
