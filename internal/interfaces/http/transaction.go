package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"cashup/internal/domain/audit"
	"cashup/internal/domain/transaction"
	"cashup/internal/shared/middleware"
)

type TransactionHandler struct {
	repo     transaction.Repository
	auditLog audit.Recorder
}

func NewTransactionHandler(repo transaction.Repository, auditLog audit.Recorder) *TransactionHandler {
	return &TransactionHandler{repo: repo, auditLog: auditLog}
}

// HTTP request types (transport layer concerns)
type CreateTransactionRequest struct {
	Type           string  `json:"type"`
	Date           string  `json:"date"`
	Value          string  `json:"value"`
	Description    string  `json:"description"`
	ClientSupplier *string `json:"clientSupplier"`
}

// HandleTransactions routes the collection endpoint (POST creates, GET lists).
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Type != transaction.TypeInflow && req.Type != transaction.TypeOutflow {
		http.Error(w, "Type must be INFLOW or OUTFLOW", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		http.Error(w, "Description is required", http.StatusBadRequest)
		return
	}

	tx, err := h.repo.Create(r.Context(), transaction.CreateTransactionParams{
		Type:           req.Type,
		Date:           date,
		Value:          value,
		Description:    req.Description,
		ClientSupplier: req.ClientSupplier,
	})
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	h.record(r, "create_transaction", &tx.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

func (h *TransactionHandler) record(r *http.Request, action string, entityID *int64) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		return
	}
	entry := audit.Entry{UserID: userID, Action: action, Entity: "transaction", EntityID: entityID}
	if err := h.auditLog.Record(r.Context(), entry); err != nil {
		log.Printf("Error recording action log (%s): %v", action, err)
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	txs, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txs)
}

// HandleTransactionByID returns one transaction.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	tx, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching transaction %d: %v", id, err)
		http.Error(w, "Failed to fetch transaction", http.StatusInternalServerError)
		return
	}
	if tx == nil {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
