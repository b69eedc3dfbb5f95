package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/chartlayout/pkg/buildinfo"
	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/render"
)

// =============================================================================
// Request Bodies
// =============================================================================

// axisBody is the body of POST /v1/axis.
type axisBody struct {
	Width      float64 `json:"width"`
	FontFamily string  `json:"font_family,omitempty"`
	pipeline.AxisRequest
}

// legendBody is the body of POST /v1/legend.
type legendBody struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	pipeline.LegendRequest
}

// radialBody is the body of POST /v1/radial. Labels are centred in the
// width × height viewport.
type radialBody struct {
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	pipeline.RadialRequest
}

// batchResponse is the body returned by POST /v1/layout/batch.
type batchResponse struct {
	Results []*pipeline.Result `json:"results"`
}

// errorResponse is the body of every error.
type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"cache":   cache.BackendName(s.runner.Cache),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []pipeline.Request
	if err := s.decode(w, r, &reqs); err != nil {
		writeError(w, r, err)
		return
	}
	if len(reqs) == 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request batch is empty"))
		return
	}
	results, err := s.runner.ExecuteBatch(r.Context(), reqs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var opts []render.SVGOption
	if guides, _ := strconv.ParseBool(r.URL.Query().Get("guides")); guides {
		opts = append(opts, render.WithGuides())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.RenderSVG(res, opts...))
}

func (s *Server) handleAxis(w http.ResponseWriter, r *http.Request) {
	var body axisBody
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Width == 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "width is required"))
		return
	}
	axis := body.AxisRequest
	res, err := s.runner.Execute(r.Context(), pipeline.Request{
		Kind:       pipeline.KindCartesian,
		Width:      body.Width,
		FontFamily: body.FontFamily,
		Axis:       &axis,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Axis)
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	var body legendBody
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Width == 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "width is required"))
		return
	}
	lg := body.LegendRequest
	res, err := s.runner.Execute(r.Context(), pipeline.Request{
		Kind:       pipeline.KindCartesian,
		Width:      body.Width,
		Height:     body.Height,
		FontFamily: body.FontFamily,
		Legend:     &lg,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Legend)
}

func (s *Server) handleRadial(w http.ResponseWriter, r *http.Request) {
	var body radialBody
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	rd := body.RadialRequest
	res, err := s.runner.Execute(r.Context(), pipeline.Request{
		Kind:       pipeline.KindRadial,
		Width:      body.Width,
		Height:     body.Height,
		FontFamily: body.FontFamily,
		Radial:     &rd,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Radial)
}

// =============================================================================
// Encoding
// =============================================================================

// decode reads a JSON body, rejecting unknown fields and oversized bodies.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.GetCode(err) != "":
	case r.Context().Err() == context.DeadlineExceeded:
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	default:
		err = errors.Wrap(errors.ErrCodeInternal, err, "%v", err)
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func notFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
