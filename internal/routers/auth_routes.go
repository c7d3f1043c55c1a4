package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/hatif03/prepwise/internal/handlers"
	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
)

func AuthRoutes(router *chi.Mux, authHandler *handlers.AuthHandler) {
	router.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
	})
}
