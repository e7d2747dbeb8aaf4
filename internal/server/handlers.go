package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/outils-citoyens/outils-api/internal/pipeline"
	"github.com/outils-citoyens/outils-api/internal/sanitize"
	"github.com/outils-citoyens/outils-api/internal/server/middleware"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// toolInfo is one entry of GET /tools.
type toolInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"ok":                 true,
		"status":             "ok",
		"generation_backend": s.pipeline.HasBackend(),
	})
}

// handleTools lists the supported tools.
func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	ids := types.ToolIDs()
	tools := make([]toolInfo, 0, len(ids))
	for _, id := range ids {
		tools = append(tools, toolInfo{ID: string(id), Label: id.Label()})
	}
	s.jsonResponse(w, http.StatusOK, tools)
}

// handleGenerate runs the generation pipeline. Any known tool yields 200.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	toolID, fields, err := s.decodeGenerate(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	outcome, err := s.pipeline.Generate(r.Context(), toolID, fields)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.logOutcome(r, toolID, outcome)

	w.Header().Set("X-Generation-Source", string(outcome.Source))
	s.jsonResponse(w, http.StatusOK, outcome.Result)
}

// handleGenerateStream runs the pipeline and streams its progress as SSE,
// ending with a "result" event.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	toolID, fields, err := s.decodeGenerate(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := pipeline.WithProgress(r.Context(), func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.log.Debug("progress event dropped", "error", err)
		}
	})

	outcome, err := s.pipeline.Generate(ctx, toolID, fields)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	s.logOutcome(r, toolID, outcome)
	sse.WriteResult(string(outcome.Source), outcome.Result)
}

// handleChat answers one assistant turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		err = validationError(err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if req.ToolID != "" && !types.ToolID(req.ToolID).Known() {
		s.errorResponse(w, http.StatusBadRequest, (&types.UnknownToolError{ToolID: req.ToolID}).Error())
		return
	}

	for i := range req.Messages {
		req.Messages[i].Content = sanitize.String(req.Messages[i].Content)
	}
	if req.CurrentFormValues != nil {
		req.CurrentFormValues = sanitize.Fields(req.CurrentFormValues)
	}

	s.jsonResponse(w, http.StatusOK, s.chat.Respond(r.Context(), req))
}

// handleLegalSearch answers a legal question from the indexed sources.
func (s *Server) handleLegalSearch(w http.ResponseWriter, r *http.Request) {
	if s.legal == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "legal search unavailable")
		return
	}

	var q types.LegalQuery
	if err := decodeJSON(w, r, &q); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	q.Question = sanitize.String(q.Question)

	answer, err := s.legal.Search(r.Context(), q)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			s.log.Error("legal search failed",
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
			s.errorResponse(w, status, "legal search failed")
			return
		}
		s.errorResponse(w, status, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, answer)
}

// handleLegalHealth reports legal store status; 503 when it is not usable.
func (s *Server) handleLegalHealth(w http.ResponseWriter, r *http.Request) {
	if s.legal == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
			"status": "error",
			"error":  "legal search unavailable",
		})
		return
	}
	health := s.legal.Health(r.Context())
	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.jsonResponse(w, status, health)
}

// decodeGenerate parses, validates and sanitizes a generation request.
func (s *Server) decodeGenerate(w http.ResponseWriter, r *http.Request) (types.ToolID, types.Fields, error) {
	var req types.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", nil, err
	}
	if err := req.Validate(); err != nil {
		return "", nil, validationError(err)
	}
	toolID, err := types.ParseToolID(req.ToolID)
	if err != nil {
		return "", nil, err
	}
	return toolID, sanitize.Fields(req.Fields), nil
}

func (s *Server) logOutcome(r *http.Request, toolID types.ToolID, outcome pipeline.Outcome) {
	kv := []any{
		"request_id", middleware.GetRequestID(r.Context()),
		"tool_id", string(toolID),
		"source", string(outcome.Source),
	}
	if outcome.Failure != nil {
		s.log.Warn("generation fell back", append(kv, "error", outcome.Failure.Error())...)
		return
	}
	s.log.Info("generation completed", kv...)
}

// validationError turns validator output into an ErrValidation naming the
// first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{Field: verrs[0].Namespace(), Message: verrs[0].Tag()}
	}
	return &ErrValidation{Message: err.Error()}
}
