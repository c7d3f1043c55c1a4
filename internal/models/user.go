package models

import (
	"strings"
	"time"
)

// User is an account record in the users collection.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return &ErrorResponse{Code: "missing_fields", Message: "Name, email and password are required"}
	}
	if !strings.Contains(r.Email, "@") {
		return &ErrorResponse{Code: "invalid_email", Message: "Email is not valid"}
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return &ErrorResponse{Code: "missing_fields", Message: "Email and password are required"}
	}
	return nil
}

type AuthResponse struct {
	Token string `json:"token"`
}
