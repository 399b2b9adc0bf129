package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/model"
)

// EmployeeStore defines the database methods needed by employee admin
// handlers. Satisfied by *database.Queries.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, arg database.CreateEmployeeParams) (model.Employee, error)
	UpdateEmployee(ctx context.Context, arg database.UpdateEmployeeParams) (model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	ListRoles(ctx context.Context) ([]model.Role, error)
}

// EmployeeHandler handles employee and role admin endpoints.
type EmployeeHandler struct {
	store EmployeeStore
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(store EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{store: store}
}

// RegisterRoutes registers employee admin endpoints on the given Chi
// router. Expected to be mounted at /admin/employees.
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

// RegisterRoleRoutes registers the role list endpoint; roles are fixed
// seed data, so only reads exist.
func (h *EmployeeHandler) RegisterRoleRoutes(r chi.Router) {
	r.Get("/", h.Roles)
}

// --- Request types ---

type createEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Profile    string `json:"profile"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	Gender     string `json:"gender"`
	BirthDate  string `json:"birth_date"`
	Address    string `json:"address"`
	DateHired  string `json:"date_hired"`
	RoleID     int64  `json:"role_id" validate:"required"`
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
}

type editEmployeeRequest struct {
	ID         int64  `json:"id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Profile    string `json:"profile"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	Gender     string `json:"gender"`
	BirthDate  string `json:"birth_date"`
	Address    string `json:"address"`
	DateHired  string `json:"date_hired"`
	RoleID     int64  `json:"role_id" validate:"required"`
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"omitempty,min=6"`
}

// --- Handlers ---

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		respondError(w, "list employees", err)
		return
	}
	respondData(w, employees)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, "hash password", err)
		return
	}

	employee, err := h.store.CreateEmployee(r.Context(), database.CreateEmployeeParams{
		EmployeeID:   req.EmployeeID,
		FullName:     req.FullName,
		Profile:      req.Profile,
		Phone:        req.Phone,
		Email:        req.Email,
		Gender:       req.Gender,
		BirthDate:    req.BirthDate,
		Address:      req.Address,
		DateHired:    req.DateHired,
		RoleID:       req.RoleID,
		Username:     req.Username,
		PasswordHash: string(hash),
	})
	if err != nil {
		respondError(w, "create employee", err)
		return
	}
	respondData(w, employee)
}

func (h *EmployeeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	// Empty password keeps the stored hash.
	passwordHash := ""
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, "hash password", err)
			return
		}
		passwordHash = string(hash)
	}

	employee, err := h.store.UpdateEmployee(r.Context(), database.UpdateEmployeeParams{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		FullName:     req.FullName,
		Profile:      req.Profile,
		Phone:        req.Phone,
		Email:        req.Email,
		Gender:       req.Gender,
		BirthDate:    req.BirthDate,
		Address:      req.Address,
		DateHired:    req.DateHired,
		RoleID:       req.RoleID,
		Username:     req.Username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Employee not found")
			return
		}
		respondError(w, "update employee", err)
		return
	}
	respondData(w, employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid employee id")
		return
	}
	if err := h.store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Employee not found")
			return
		}
		respondError(w, "delete employee", err)
		return
	}
	respondData(w, nil)
}

func (h *EmployeeHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.store.ListRoles(r.Context())
	if err != nil {
		respondError(w, "list roles", err)
		return
	}
	respondData(w, roles)
}
