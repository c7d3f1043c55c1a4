package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/hatif03/prepwise/internal/handlers"
	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
)

func SessionRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler, jwtSecret string) {
	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.With(middleware.ValidateRequest[*models.StartSessionRequest]()).Post("/", sessionHandler.StartHandler)
		r.Get("/{sessionID}", sessionHandler.GetHandler)
		r.Post("/{sessionID}/disconnect", sessionHandler.DisconnectHandler)
	})
}
