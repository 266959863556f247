package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cashup/internal/domain/transaction"
	"cashup/internal/shared/middleware"
)

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	CreateFunc  func(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error)
	GetByIDFunc func(ctx context.Context, id int64) (*transaction.Transaction, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*transaction.Transaction, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) List(ctx context.Context, limit, offset int) ([]*transaction.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Query(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*transaction.Transaction, error) {
	return nil, nil
}

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, int64(42))
	return req.WithContext(ctx)
}

func TestHandleTransactions_Create(t *testing.T) {
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
			return &transaction.Transaction{
				ID:          7,
				Type:        params.Type,
				Date:        params.Date,
				Value:       params.Value,
				Description: params.Description,
			}, nil
		},
	}
	auditLog := &MockAuditLog{}
	handler := NewTransactionHandler(repo, auditLog)

	body := bytes.NewBufferString(`{"type":"INFLOW","date":"2024-03-10","value":"150.00","description":"Invoice 123"}`)
	rec := httptest.NewRecorder()
	handler.HandleTransactions(rec, authedRequest(http.MethodPost, "/api/transactions", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(auditLog.Entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(auditLog.Entries))
	}
	entry := auditLog.Entries[0]
	if entry.Action != "create_transaction" || entry.Entity != "transaction" {
		t.Errorf("audit entry = %+v, want create_transaction on transaction", entry)
	}
	if entry.UserID != 42 {
		t.Errorf("audit user id = %d, want 42", entry.UserID)
	}
	if entry.EntityID == nil || *entry.EntityID != 7 {
		t.Errorf("audit entity id = %v, want 7", entry.EntityID)
	}
}

func TestHandleTransactions_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad type", `{"type":"TRANSFER","date":"2024-03-10","value":"10.00","description":"x"}`},
		{"bad date", `{"type":"INFLOW","date":"10/03/2024","value":"10.00","description":"x"}`},
		{"bad value", `{"type":"INFLOW","date":"2024-03-10","value":"ten","description":"x"}`},
		{"missing description", `{"type":"INFLOW","date":"2024-03-10","value":"10.00","description":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditLog := &MockAuditLog{}
			handler := NewTransactionHandler(&MockTransactionRepo{}, auditLog)

			rec := httptest.NewRecorder()
			handler.HandleTransactions(rec, authedRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if len(auditLog.Entries) != 0 {
				t.Errorf("audit entries = %d, want 0 for rejected request", len(auditLog.Entries))
			}
		})
	}
}

func TestHandleTransactionByID_NotFound(t *testing.T) {
	handler := NewTransactionHandler(&MockTransactionRepo{}, &MockAuditLog{})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	handler.HandleTransactionByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
