package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/bargroup/pkg/buildinfo"
	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
	"github.com/matzehuels/bargroup/pkg/pipeline"
)

// HeaderCache reports whether the artifact was served from cache.
const HeaderCache = "X-Cache"

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
		"built":   buildinfo.Date,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := readDocument(w, r, s.maxBody)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(ctx, doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set(HeaderCache, cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// renderOptions reads pipeline options from the query string.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Formats:    []string{format},
		Placement:  q.Get("placement"),
		Fallback:   q.Get("fallback"),
		Title:      q.Get("title"),
		Background: q.Get("background"),
		Refresh:    q.Get("refresh") == "true",
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"bar_width", &opts.BarWidth},
		{"scale", &opts.Scale},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a number", f.name, raw)
		}
		*f.dst = v
	}
	return opts, nil
}

// readDocument decodes the request body according to its content type.
func readDocument(w http.ResponseWriter, r *http.Request, limit int64) (*chartio.Document, error) {
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv":
		return chartio.ReadCSV(body)
	default:
		return chartio.ReadTOML(body)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := requestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "err", err, "request_id", id)
	} else {
		s.logger.Debug("rejected request", "err", err, "request_id", id)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: id,
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSize, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidPath, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeSeriesMismatch, errors.ErrCodePaletteUnderflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
