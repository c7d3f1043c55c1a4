package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hatif03/prepwise/internal/middleware"
	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/repositories"
	"github.com/hatif03/prepwise/internal/utils"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	repo      repositories.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(repo repositories.UserRepository, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{repo: repo, jwtSecret: jwtSecret, logger: logger}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	if existing, err := h.repo.GetByEmail(r.Context(), req.Email); err == nil && existing != nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "email_taken",
			Message: "An account with this email already exists",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to hash password",
		})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.repo.Create(r.Context(), user); err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create user",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			h.logger.Error("failed to look up user", zap.Error(err))
		}
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "Invalid email or password",
		})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "Invalid email or password",
		})
		return
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to sign token",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.AuthResponse{Token: signed})
}
