package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"cashup/internal/domain/audit"
	"cashup/internal/domain/title"
	"cashup/internal/shared/middleware"
)

type TitleHandler struct {
	repo       title.Repository
	settlement *title.SettlementService
	auditLog   audit.Recorder
}

func NewTitleHandler(repo title.Repository, settlement *title.SettlementService, auditLog audit.Recorder) *TitleHandler {
	return &TitleHandler{
		repo:       repo,
		settlement: settlement,
		auditLog:   auditLog,
	}
}

type CreateTitleRequest struct {
	Type           string  `json:"type"`
	ClientSupplier string  `json:"clientSupplier"`
	DueDate        string  `json:"dueDate"`
	Value          string  `json:"value"`
	PaymentMethod  *string `json:"paymentMethod"`
	Notes          *string `json:"notes"`
}

// HandleTitles routes the collection endpoint (POST creates, GET lists).
func (h *TitleHandler) HandleTitles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TitleHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Type != title.TypePayable && req.Type != title.TypeReceivable {
		http.Error(w, "Type must be PAYABLE or RECEIVABLE", http.StatusBadRequest)
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		http.Error(w, "Invalid dueDate, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil || value.Sign() <= 0 {
		http.Error(w, "Value must be a positive number", http.StatusBadRequest)
		return
	}
	if req.ClientSupplier == "" {
		http.Error(w, "ClientSupplier is required", http.StatusBadRequest)
		return
	}

	t, err := h.repo.Create(r.Context(), title.CreateTitleParams{
		Type:           req.Type,
		ClientSupplier: req.ClientSupplier,
		DueDate:        dueDate,
		Value:          value,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		log.Printf("Error creating title: %v", err)
		http.Error(w, "Failed to create title", http.StatusInternalServerError)
		return
	}

	h.record(r, "create_title", &t.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

func (h *TitleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	titles, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("Error listing titles: %v", err)
		http.Error(w, "Failed to list titles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(titles)
}

// HandleSettle settles a title, creating the corresponding ledger
// transaction. Settling an already-settled title is a no-op.
func (h *TitleHandler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid title ID", http.StatusBadRequest)
		return
	}

	settled, err := h.settlement.Settle(r.Context(), id)
	if err != nil {
		if errors.Is(err, title.ErrNotFound) {
			http.Error(w, "Title not found", http.StatusNotFound)
			return
		}
		log.Printf("Error settling title %d: %v", id, err)
		http.Error(w, "Failed to settle title", http.StatusInternalServerError)
		return
	}

	h.record(r, "settle_title", &settled.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settled)
}

func (h *TitleHandler) record(r *http.Request, action string, entityID *int64) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		return
	}
	entry := audit.Entry{UserID: userID, Action: action, Entity: "title", EntityID: entityID}
	if err := h.auditLog.Record(r.Context(), entry); err != nil {
		log.Printf("Error recording action log (%s): %v", action, err)
	}
}
