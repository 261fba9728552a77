package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/codeWuws/th-governance-web-sub002/pkg/buildinfo"
	gserrors "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
)

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	Data        json.RawMessage   `json:"data"`
	Select      string            `json:"select,omitempty"`
	MaxDepth    *int              `json:"max_depth,omitempty"`
	Locale      string            `json:"locale,omitempty"`
	EmptyArrays string            `json:"empty_arrays,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Format      string            `json:"format,omitempty"`
	Collapse    bool              `json:"collapse,omitempty"`
	Sheet       string            `json:"sheet,omitempty"`
	Title       string            `json:"title,omitempty"`
}

// Options converts the request into pipeline options for a single format.
func (req TransformRequest) Options() pipeline.Options {
	format := req.Format
	if format == "" {
		format = pipeline.FormatJSON
	}
	return pipeline.Options{
		Select:      req.Select,
		MaxDepth:    req.MaxDepth,
		EmptyArrays: req.EmptyArrays,
		Labels:      req.Labels,
		Formats:     []string{format},
		Locale:      req.Locale,
		Collapse:    req.Collapse,
		Sheet:       req.Sheet,
		Title:       req.Title,
		Source:      "request",
	}
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code      gserrors.Code `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, gserrors.New(gserrors.ErrCodeTooLarge, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Data) == 0 {
		s.writeError(w, r, gserrors.New(gserrors.ErrCodeInvalidInput, "data is required"))
		return
	}

	opts := req.Options()
	result, err := s.runner.Execute(r.Context(), req.Data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	body := result.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Table-Hash", result.TableHash)
	if format == pipeline.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="table.xlsx"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, gserrors.New(gserrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Code:      gserrors.ErrCodeUnsupported,
		Message:   r.Method + " is not allowed on " + r.URL.Path,
		RequestID: RequestID(r.Context()),
	})
}

// writeError writes err as an ErrorResponse. Errors without a code are
// reported as INTERNAL_ERROR without their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{
		Code:      gserrors.GetCode(err),
		Message:   gserrors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}
	if resp.Code == "" {
		resp.Code = gserrors.ErrCodeInternal
		resp.Message = "internal error"
	}

	status := StatusCode(err)
	if status >= 500 {
		s.logger.Error("transform failed", "error", err, "request_id", resp.RequestID)
	}
	writeJSON(w, status, resp)
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	if gserrors.IsValidation(err) {
		return http.StatusBadRequest
	}
	switch gserrors.GetCode(err) {
	case gserrors.ErrCodeNotFound, gserrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case gserrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case gserrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case gserrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case gserrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
