package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/csvscope/internal/analysis"
	"github.com/KaramelBytes/csvscope/internal/parser"
	"github.com/KaramelBytes/csvscope/internal/session"
)

// multipartOverhead is the body allowance on top of the file size limit for
// multipart framing and other form fields.
const multipartOverhead = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type datasetResponse struct {
	*session.Dataset
	Description string `json:"description"`
}

type rowsResponse struct {
	Headers []string          `json:"headers"`
	Rows    [][]analysis.Cell `json:"rows"`
	analysis.PageInfo
}

// writeJSON buffers the encoded body; an encoding failure is logged and
// answered with 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.WithError(err).WithField("status", status).Error("encode response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"internal error"}`+"\n")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, parser.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, parser.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, analysis.ErrInputFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNoDataset):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := s.log.WithError(err).WithField("path", r.URL.Path)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload analyzes the multipart "file" field and makes it the current
// dataset. A failed upload leaves the previous dataset in place.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.opt.MaxUploadBytes
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.fail(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing multipart field \"file\""})
		return
	}
	defer file.Close()

	src := io.Reader(file)
	if limit > 0 {
		src = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tbl, err := parser.ParseUpload(header.Filename, header.Header.Get("Content-Type"), data, limit, parser.Options{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ds, err := s.analyzer.AnalyzeTable(tbl)
	if err != nil {
		s.fail(w, r, &parser.UploadError{Filename: header.Filename, Err: err})
		return
	}
	cur := s.store.Replace(header.Filename, int64(len(data)), ds)
	s.log.WithFields(logrus.Fields{
		"dataset": cur.ID,
		"name":    cur.Name,
		"rows":    ds.Summary.RowCount,
		"columns": ds.Summary.ColumnCount,
	}).Info("dataset loaded")
	s.writeJSON(w, http.StatusCreated, datasetResponse{Dataset: cur, Description: analysis.Describe(ds)})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	cur, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, datasetResponse{Dataset: cur, Description: analysis.Describe(cur.Data)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !s.store.Reset() {
		s.fail(w, r, session.ErrNoDataset)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRows searches and pages the preview rows.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	cur, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	rows, info := analysis.Paginate(analysis.FilterRows(cur.Data.RawData, q.Get("q")), page, perPage)
	if rows == nil {
		rows = [][]analysis.Cell{}
	}
	s.writeJSON(w, http.StatusOK, rowsResponse{Headers: cur.Data.Headers, Rows: rows, PageInfo: info})
}

// handleReport renders the dataset report as HTML, or as the raw Markdown
// when format=markdown.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	cur, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opt := s.opt.Report
	opt.Name = cur.Name
	md := cur.Data.Markdown(opt)
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, md)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(renderHTML(md))
}

func renderHTML(md string) []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions | mdparser.HardLineBreak)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage, Title: "Dataset report"})
	return markdown.ToHTML([]byte(md), p, renderer)
}
