package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/provek/interview-sim/internal/entity"
	"github.com/provek/interview-sim/internal/pkg/logger"
	formatter "github.com/provek/interview-sim/internal/pkg/report"
	"github.com/provek/interview-sim/internal/pkg/response"
	"github.com/provek/interview-sim/internal/report"
	"go.uber.org/zap"
)

type Handler struct {
	manager InterviewManager
	now     func() time.Time
}

func NewHandler(manager InterviewManager) *Handler {
	return &Handler{
		manager: manager,
		now:     time.Now,
	}
}

// StartInterview handles POST /interview-session - create and start a session
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartInterview")

	var req entity.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := entity.ValidateCandidateName(req.CandidateName); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "candidate name is required", err)
		return
	}

	created, err := h.manager.CreateSession(ctx)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.String("session_id", created.ID))
	session, err := h.manager.StartInterview(ctx, created.ID, strings.TrimSpace(req.CandidateName), req.Role, req.DurationMinutes)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "interview session started")
	h.respondJSON(w, http.StatusCreated, toSessionDTO(session))
}

// GetSession handles GET /interview-session/{id} - current session state
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", chi.URLParam(r, "id")),
		zap.String("action", "GetSession"),
	)

	session, err := h.manager.GetSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// SubmitAnswer handles POST /interview-session/{id}/answer
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "SubmitAnswer"),
	)

	var req entity.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.QuestionID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "question_id is required",
			fmt.Errorf("%w: question_id", entity.ErrMissingField))
		return
	}
	if strings.TrimSpace(req.AnswerText) == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "answer_text is required",
			fmt.Errorf("%w: answer_text", entity.ErrMissingField))
		return
	}

	ctxzap.Info(ctx, "submitting answer", zap.String("question_id", req.QuestionID))

	session, err := h.manager.SubmitAnswer(ctx, sessionID, req.QuestionID, req.AnswerText)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// ContinueInterview handles POST /interview-session/{id}/continue
func (h *Handler) ContinueInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ContinueInterview"),
	)

	session, err := h.manager.ContinueInterview(ctx, sessionID)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// RestartInterview handles POST /interview-session/{id}/restart
func (h *Handler) RestartInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "RestartInterview"),
	)

	session, err := h.manager.RestartInterview(ctx, sessionID)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// GetReport handles GET /interview-session/{id}/report - summary report JSON
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetReport"),
	)

	summary, err := h.buildReport(ctx, sessionID)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// GetReportFile handles GET /interview-session/{id}/report/file?format=markdown|pdf
func (h *Handler) GetReportFile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetReportFile"),
	)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	format := entity.ReportFormat(formatParam)
	if err := format.Validate(); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "format must be one of: markdown, pdf", err)
		return
	}

	summary, err := h.buildReport(ctx, sessionID)
	if err != nil {
		h.handleManagerError(ctx, w, err)
		return
	}

	factory := formatter.NewFactory()
	fmtr, err := factory.Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	formatted, err := fmtr.Format(report.RenderText(summary))
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format report", err)
		return
	}

	ctxzap.Info(ctx, "report exported", zap.String("format", string(format)))
	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"interview-%s%s\"", sessionID, fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(formatted)
}

func (h *Handler) buildReport(ctx context.Context, sessionID string) (*entity.SummaryReport, error) {
	session, err := h.manager.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return report.BuildReport(session, h.now())
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleManagerError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrSessionNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "session not found", err)
	} else if errors.Is(err, entity.ErrBlankCandidateName) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrWrongState) || errors.Is(err, entity.ErrQuestionMismatch) {
		h.respondError(ctx, w, http.StatusConflict, "invalid session state", err)
	} else if errors.Is(err, entity.ErrTooManyRequests) {
		h.respondError(ctx, w, http.StatusTooManyRequests, "too many requests", err)
	} else if errors.Is(err, entity.ErrServiceUnavailable) {
		h.respondError(ctx, w, http.StatusBadGateway, "upstream service unavailable", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
