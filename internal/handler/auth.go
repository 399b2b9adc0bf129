package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dineflow-pos/api/internal/auth"
	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/middleware"
	"github.com/dineflow-pos/api/internal/model"
)

// AuthStore defines the database methods needed by the login handler.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	GetEmployeeByUsername(ctx context.Context, username string) (database.EmployeeWithCredentials, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/authorization/login", h.Login)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string         `json:"token"`
	Role  string         `json:"role"`
	User  model.Employee `json:"user"`
}

// --- Handlers ---

// Login checks the password and issues the session token. Bad
// credentials are an app-level rejection, not a 401: the login screen
// is the one place with no session to expire.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	emp, err := h.store.GetEmployeeByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Invalid username or password")
			return
		}
		respondError(w, "login", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		respondAppError(w, "Invalid username or password")
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, emp.ID, emp.RoleName)
	if err != nil {
		respondError(w, "generate token", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	respondData(w, loginResponse{Token: token, Role: emp.RoleName, User: emp.Employee})
}
