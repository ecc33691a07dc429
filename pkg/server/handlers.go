package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/cellgrid/pkg/buildinfo"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/errors"
	"github.com/matzehuels/cellgrid/pkg/observability"
	"github.com/matzehuels/cellgrid/pkg/pipeline"
)

// CacheHeader reports on /v1/render whether the artifact came from the
// cache ("hit") or was rendered ("miss").
const CacheHeader = "X-Cellgrid-Cache"

// =============================================================================
// Request and Response Bodies
// =============================================================================

// SolveRequest is the body of /v1/solve and /v1/render. The pipeline
// options sit next to the document.
type SolveRequest struct {
	Document *document.Document `json:"document"`
	pipeline.Options
}

// SolveResponse is the body answered by /v1/solve.
type SolveResponse struct {
	DocumentHash string            `json:"document_hash"`
	Layout       document.Layout   `json:"layout"`
	Artifacts    map[string][]byte `json:"artifacts,omitempty"`
	Cached       CacheStatus       `json:"cached"`
}

// CacheStatus tells which stages were served from the cache.
type CacheStatus struct {
	Solve  bool `json:"solve"`
	Render bool `json:"render,omitempty"`
}

// HintsRequest is the body of /v1/hints. A missing constraint, or a
// negative component, means unconstrained.
type HintsRequest struct {
	Document   *document.Document `json:"document"`
	Constraint *engine.Size       `json:"constraint,omitempty"`
}

// HintsResponse is the body answered by /v1/hints.
type HintsResponse struct {
	pipeline.Hints
	Cached bool `json:"cached"`
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Document == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "document is required"))
		return
	}

	hash, err := pipeline.DocumentHash(req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := SolveResponse{DocumentHash: hash}

	if len(req.Formats) == 0 {
		l, hit, err := s.runner.SolveWithCacheInfo(r.Context(), req.Document, req.Options)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Layout = l
		resp.Cached.Solve = hit
		writeJSON(w, http.StatusOK, resp)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Document, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Layout = result.Layout
	resp.Artifacts = result.Artifacts
	resp.Cached = CacheStatus{Solve: result.CacheInfo.SolveHit, Render: result.CacheInfo.RenderHit}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	var req HintsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Document == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "document is required"))
		return
	}

	constraint := engine.Size{Width: engine.NoConstraint, Height: engine.NoConstraint}
	if req.Constraint != nil {
		constraint = *req.Constraint
	}

	h, hit, err := s.runner.HintsWithCacheInfo(r.Context(), req.Document, constraint)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HintsResponse{Hints: h, Cached: hit})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Document == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "document is required"))
		return
	}
	if len(req.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "render takes one format, got %d", len(req.Formats)))
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Document, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := pipeline.FormatSVG
	if len(req.Formats) == 1 {
		format = req.Formats[0]
	}
	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set(CacheHeader, cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v, rejecting unknown fields and bodies
// over the size limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidFormat, "request body holds more than one JSON value")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, errors.GetCode(err).HTTPStatus(), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)

	code := errors.GetCode(err)
	message := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "err", err)
		if code == "" {
			code, message = errors.ErrCodeInternal, "internal error"
		}
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}

	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: message},
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

func errNotFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	err := errors.New(errors.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path)
	s.writeErrorStatus(w, r, http.StatusMethodNotAllowed, err)
}
