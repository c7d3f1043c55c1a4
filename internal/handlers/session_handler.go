package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/events"
	"github.com/hatif03/prepwise/internal/metrics"
	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/repositories"
	"github.com/hatif03/prepwise/internal/session"
	"github.com/hatif03/prepwise/internal/utils"
)

// CallerFactory builds the call client for one session. Tests swap in a fake
// so no gateway connection is needed.
type CallerFactory func() session.Caller

// SessionHandlerConfig carries the call targets each session mode uses.
type SessionHandlerConfig struct {
	WorkflowID  string
	AssistantID string
}

type SessionHandler struct {
	registry   *session.Registry
	interviews repositories.InterviewRepository
	generator  session.Generator
	notifier   events.Notifier
	newCaller  CallerFactory
	config     SessionHandlerConfig
	logger     *zap.Logger
}

func NewSessionHandler(
	registry *session.Registry,
	interviews repositories.InterviewRepository,
	generator session.Generator,
	notifier events.Notifier,
	newCaller CallerFactory,
	config SessionHandlerConfig,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		registry:   registry,
		interviews: interviews,
		generator:  generator,
		notifier:   notifier,
		newCaller:  newCaller,
		config:     config,
		logger:     logger,
	}
}

// StartHandler creates a session for the caller and launches the voice call.
// Interview mode resolves the interview's question list up front; a missing
// interview fails the request before any call is placed.
func (h *SessionHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartSessionRequest](r)
	userID := middleware.GetUserID(r)

	var questions []string
	if req.Mode == models.ModeInterview {
		interview, err := h.interviews.GetByID(r.Context(), req.InterviewID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
					Code:    "interview_not_found",
					Message: "Interview not found",
				})
				return
			}
			h.logger.Error("failed to load interview for session", zap.Error(err))
			utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Code:    "internal_error",
				Message: "Failed to load interview",
			})
			return
		}
		questions = interview.Questions
	}

	sessionID := uuid.New().String()
	machine := session.New(session.Config{
		ID:          sessionID,
		Mode:        req.Mode,
		InterviewID: req.InterviewID,
		UserID:      userID,
		UserName:    req.UserName,
		FeedbackID:  req.FeedbackID,
		Questions:   questions,
		WorkflowID:  h.config.WorkflowID,
		AssistantID: h.config.AssistantID,
		Caller:      h.newCaller(),
		Generator:   h.generator,
		Notifier:    h.notifier,
		Logger:      h.logger,
	})

	h.registry.Add(machine)
	if err := machine.Start(r.Context()); err != nil {
		h.registry.Remove(sessionID)
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "session_already_running",
			Message: "Session is already running",
		})
		return
	}
	metrics.SessionStarted(req.Mode)

	utils.JSON(w, http.StatusCreated, models.StartSessionResponse{
		Success:   true,
		SessionID: sessionID,
	})
}

// GetHandler returns the live snapshot of a session: status, transcript,
// speaking flag, and the redirect target once the session has finished.
func (h *SessionHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	machine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, machine.Snapshot())
}

// DisconnectHandler ends the call immediately. Disconnecting an already
// finished session is a no-op and still succeeds.
func (h *SessionHandler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	machine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	machine.Disconnect()
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Machine, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	machine, ok := h.registry.Get(sessionID)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "Session not found",
		})
		return nil, false
	}
	return machine, true
}
