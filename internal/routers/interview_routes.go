package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/hatif03/prepwise/internal/handlers"
	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, jwtSecret string) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", interviewHandler.CreateHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.Get("/{id}/feedback", interviewHandler.GetFeedbackHandler)
	})
}
