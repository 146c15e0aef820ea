// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pollstream/live-polls/auth"
	"github.com/pollstream/live-polls/cliparse"
	"github.com/pollstream/live-polls/middleware"
	"github.com/pollstream/live-polls/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	var existingID string
	err := h.db.QueryRow(`SELECT id FROM app_user WHERE email = $1`, req.Email).Scan(&existingID)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email exists")
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleMember,
		CreatedAt:    time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO app_user (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := auth.GenerateToken(user, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		User:  models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		Token: token,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	err := h.db.QueryRow(`
		SELECT id, name, email, password_hash, role, created_at
		FROM app_user
		WHERE email = $1
	`, req.Email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		User:  models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		Token: token,
	})
}
