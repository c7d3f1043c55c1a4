package handlers

import (
	"net/http"

	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/questions"
	"github.com/hatif03/prepwise/internal/utils"
)

type QuestionHandler struct {
	service *questions.Service
}

func NewQuestionHandler(service *questions.Service) *QuestionHandler {
	return &QuestionHandler{service: service}
}

func (h *QuestionHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateQuestionsRequest](r)

	generated, usedFallback := h.service.Generate(r.Context(), req.Role, req.Type, req.Level, req.TechStack)

	utils.JSON(w, http.StatusOK, models.GenerateQuestionsResponse{
		Success:   true,
		Questions: generated,
		Fallback:  usedFallback,
	})
}
