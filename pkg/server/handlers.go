package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/labelsheet/pkg/buildinfo"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
	"github.com/matzehuels/labelsheet/pkg/render"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// SheetRequest is the body of POST /v1/sheets. Omitted settings fall back
// to the server defaults.
type SheetRequest struct {
	Records   RecordList         `json:"records"`
	Grid      *layout.GridConfig `json:"grid,omitempty"`
	Style     *sheet.LabelStyle  `json:"style,omitempty"`
	Symbology string             `json:"symbology,omitempty"`
	Format    string             `json:"format,omitempty"`
	PageSize  string             `json:"page_size,omitempty"`
	CutGuides bool               `json:"cut_guides,omitempty"`
	DPI       float64            `json:"dpi,omitempty"`
	Title     string             `json:"title,omitempty"`
}

// RecordList decodes the records of a sheet request. Item fields other
// than the three printed on a label are ignored, so items returned by the
// inventory API can be posted as they are. The rest of the request body
// is still decoded strictly.
type RecordList []sheet.Record

func (l *RecordList) UnmarshalJSON(data []byte) error {
	var recs []sheet.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return err
	}
	*l = recs
	return nil
}

// LocateRequest is the body of POST /v1/locate.
type LocateRequest struct {
	Index int                `json:"index"`
	Grid  *layout.GridConfig `json:"grid,omitempty"`
}

// Response headers describing a rendered sheet.
const (
	HeaderPages = "X-Label-Pages"
	HeaderCache = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	var req SheetRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Records) > s.cfg.MaxRecords {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many records: %d (max %d)", len(req.Records), s.cfg.MaxRecords))
		return
	}

	opts := s.cfg.Defaults
	if req.Grid != nil {
		opts.Grid = *req.Grid
	}
	if req.Style != nil {
		opts.Style = *req.Style
	}
	if req.Symbology != "" {
		opts.Symbology = req.Symbology
	}
	format := render.FormatPDF
	if req.Format != "" {
		format = req.Format
	}
	opts.Formats = []string{format}
	if req.PageSize != "" {
		p, err := layout.ParsePageSize(req.PageSize)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.PageSize = p
	}
	opts.CutGuides = opts.CutGuides || req.CutGuides
	if req.DPI != 0 {
		opts.DPI = req.DPI
	}
	if req.Title != "" {
		opts.Title = req.Title
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	format = opts.Formats[0]

	if format == render.FormatPDF && r.URL.Query().Get("stream") == "true" {
		s.streamPDF(w, r, req.Records, opts)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Records, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	arts := result.Artifacts[format]

	idx := 0
	if format == render.FormatSVG || format == render.FormatPNG {
		page, err := pageParam(r, len(arts))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		idx = page - 1
	}
	art := arts[idx]

	h := w.Header()
	h.Set("Content-Type", render.ContentType(format))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
	h.Set(HeaderPages, strconv.Itoa(result.Stats.Pages))
	if result.CacheInfo.RenderHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(art.Data)
}

func (s *Server) streamPDF(w http.ResponseWriter, r *http.Request, records []sheet.Record, opts pipeline.Options) {
	sw := &lazyWriter{w: w, name: opts.RenderOptions().Name(render.FormatPDF)}
	if err := s.runner.Stream(r.Context(), sw, records, opts); err != nil {
		if sw.started {
			s.logger.Error("stream aborted", "id", RequestID(r.Context()), "error", err)
			return
		}
		s.writeError(w, r, err)
	}
}

// lazyWriter defers the response headers until the first byte, so a
// failure before any output still gets a JSON error response.
type lazyWriter struct {
	w       http.ResponseWriter
	name    string
	started bool
}

func (lw *lazyWriter) Write(p []byte) (int, error) {
	if !lw.started {
		lw.started = true
		h := lw.w.Header()
		h.Set("Content-Type", render.ContentType(render.FormatPDF))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", lw.name))
		lw.w.WriteHeader(http.StatusOK)
	}
	return lw.w.Write(p)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	grid := s.cfg.Defaults.Grid
	if req.Grid != nil {
		grid = *req.Grid
	}
	if grid == (layout.GridConfig{}) {
		grid = layout.DefaultGrid()
	}
	slot, err := layout.Locate(req.Index, grid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func pageParam(r *http.Request, pages int) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > pages {
		return 0, errors.New(errors.ErrCodeInvalidInput, "page must be between 1 and %d, got %q", pages, raw)
	}
	return page, nil
}
