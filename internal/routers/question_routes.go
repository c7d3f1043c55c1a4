package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/hatif03/prepwise/internal/handlers"
	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
)

func QuestionRoutes(router *chi.Mux, questionHandler *handlers.QuestionHandler, jwtSecret string) {
	router.Route("/api/v1/questions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.With(middleware.ValidateRequest[*models.GenerateQuestionsRequest]()).Post("/generate", questionHandler.GenerateHandler)
	})
}
