package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"cashup/internal/domain/audit"
	"cashup/internal/domain/user"
	"cashup/internal/shared/auth"
	"cashup/internal/shared/middleware"
)

type AuthHandler struct {
	userRepo user.Repository
	jwt      *auth.JWT
	auditLog audit.Recorder
}

func NewAuthHandler(userRepo user.Repository, jwt *auth.JWT, auditLog audit.Recorder) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		jwt:      jwt,
		auditLog: auditLog,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleLogin verifies credentials and issues a JWT.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("Error fetching user by email: %v", err)
		http.Error(w, "Failed to authenticate", http.StatusInternalServerError)
		return
	}
	if !u.IsActive {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		log.Printf("Error generating token for user %d: %v", u.ID, err)
		http.Error(w, "Failed to authenticate", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: u})
}

// HandleRegister creates a new user. Admin only, enforced by routing.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	switch req.Role {
	case user.RoleViewer, user.RoleFinance, user.RoleAdmin:
	default:
		http.Error(w, "Role must be viewer, finance, or admin", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	u, err := h.userRepo.Create(r.Context(), user.CreateUserParams{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			http.Error(w, "Email already registered", http.StatusBadRequest)
			return
		}
		log.Printf("Error creating user: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.record(r, "create_user", &u.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

func (h *AuthHandler) record(r *http.Request, action string, entityID *int64) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		return
	}
	entry := audit.Entry{UserID: userID, Action: action, Entity: "user", EntityID: entityID}
	if err := h.auditLog.Record(r.Context(), entry); err != nil {
		log.Printf("Error recording action log (%s): %v", action, err)
	}
}
