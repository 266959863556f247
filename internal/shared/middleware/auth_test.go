package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cashup/internal/domain/user"
	"cashup/internal/shared/auth"
)

func TestAuth(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	token, err := jwt.Generate(42, "finance@example.com", user.RoleFinance)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = r.Context().Value(UserIDKey).(int64)
				gotRole, _ = r.Context().Value(RoleKey).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			Auth(jwt)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK {
				if gotUserID != 42 {
					t.Errorf("context user id = %d, want 42", gotUserID)
				}
				if gotRole != user.RoleFinance {
					t.Errorf("context role = %q, want %q", gotRole, user.RoleFinance)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwt := auth.NewJWT("test-secret")

	tests := []struct {
		name           string
		role           string
		required       string
		expectedStatus int
	}{
		{"same role", user.RoleFinance, user.RoleFinance, http.StatusOK},
		{"stronger role", user.RoleAdmin, user.RoleFinance, http.StatusOK},
		{"weaker role", user.RoleViewer, user.RoleFinance, http.StatusForbidden},
		{"unknown role", "intern", user.RoleViewer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.Generate(1, "user@example.com", tt.role)
			if err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := Auth(jwt)(RequireRole(tt.required)(next))

			req := httptest.NewRequest(http.MethodPost, "/api/titles", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()

	RequireRole(user.RoleViewer)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
