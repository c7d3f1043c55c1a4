package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/repositories"
	"github.com/hatif03/prepwise/internal/utils"
)

type InterviewHandler struct {
	interviews repositories.InterviewRepository
	feedback   repositories.FeedbackRepository
	logger     *zap.Logger
}

func NewInterviewHandler(interviews repositories.InterviewRepository, feedback repositories.FeedbackRepository, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		feedback:   feedback,
		logger:     logger,
	}
}

// CreateHandler accepts a finished question list together with the interview
// parameters and persists the interview as finalized.
func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)
	userID := middleware.GetUserID(r)

	interview := &models.Interview{
		Role:      req.Role,
		Type:      req.Type,
		Level:     req.Level,
		Techstack: req.TechStack,
		Questions: req.Questions,
		UserID:    userID,
	}
	if interview.Techstack == nil {
		interview.Techstack = []string{}
	}
	if interview.Questions == nil {
		interview.Questions = []string{}
	}

	id, err := h.interviews.Create(r.Context(), interview)
	if err != nil {
		h.logger.Error("failed to create interview", zap.Error(err), zap.String("user_id", userID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create interview",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, models.CreateInterviewResponse{
		Success:     true,
		InterviewID: id,
		Interview:   interview,
	})
}

// ListHandler serves /interviews?type=user|available. "user" returns the
// caller's interviews, "available" returns finalized interviews from other
// users; anything else returns the caller's interviews for compatibility.
func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var (
		interviews []models.Interview
		err        error
	)
	switch r.URL.Query().Get("type") {
	case "available":
		interviews, err = h.interviews.ListFinalizedAvailable(r.Context(), userID)
	default:
		interviews, err = h.interviews.ListByUser(r.Context(), userID)
	}
	if err != nil {
		h.logger.Error("failed to list interviews", zap.Error(err), zap.String("user_id", userID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to fetch interviews",
		})
		return
	}
	if interviews == nil {
		interviews = []models.Interview{}
	}

	utils.JSON(w, http.StatusOK, models.InterviewsResponse{
		Success:    true,
		Interviews: interviews,
	})
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := h.interviews.GetByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "interview_not_found",
			Message: "Interview not found",
		})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch interview", zap.Error(err), zap.String("interview_id", id))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to fetch interview",
		})
		return
	}

	utils.JSON(w, http.StatusOK, interview)
}

// GetFeedbackHandler returns the canonical feedback for the interview and
// the authenticated caller.
func (h *InterviewHandler) GetFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r)

	record, err := h.feedback.GetByInterviewAndUser(r.Context(), interviewID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "feedback_not_found",
			Message: "No feedback found for this interview",
		})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch feedback",
			zap.Error(err),
			zap.String("interview_id", interviewID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to fetch feedback",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.FeedbackResponse{
		Success:  true,
		Feedback: record,
	})
}
