package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"cashup/internal/domain/audit"
	"cashup/internal/domain/reconciliation"
	"cashup/internal/domain/statement"
	"cashup/internal/shared/middleware"
)

// maxStatementSize caps uploaded statement files at 10 MB.
const maxStatementSize = 10 << 20

type ReconciliationHandler struct {
	ingestion *reconciliation.IngestionService
	repo      reconciliation.Repository
	auditLog  audit.Recorder
}

func NewReconciliationHandler(ingestion *reconciliation.IngestionService, repo reconciliation.Repository, auditLog audit.Recorder) *ReconciliationHandler {
	return &ReconciliationHandler{
		ingestion: ingestion,
		repo:      repo,
		auditLog:  auditLog,
	}
}

type UpdateItemStatusRequest struct {
	Status               string `json:"status"`
	MatchedTransactionID *int64 `json:"matchedTransactionId"`
}

// HandleImport ingests an uploaded bank statement. The file comes as
// multipart form data under the "file" field.
func (h *ReconciliationHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxStatementSize)
	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Statement file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading statement upload %q: %v", header.Filename, err)
		http.Error(w, "Failed to read statement file", http.StatusInternalServerError)
		return
	}

	result, err := h.ingestion.Ingest(r.Context(), raw, header.Filename)
	if err != nil {
		var malformed *statement.MalformedInputError
		switch {
		case errors.Is(err, statement.ErrUnsupportedFormat):
			http.Error(w, "Unsupported statement format", http.StatusUnsupportedMediaType)
		case errors.As(err, &malformed):
			http.Error(w, malformed.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error ingesting statement %q: %v", header.Filename, err)
			http.Error(w, "Failed to ingest statement", http.StatusInternalServerError)
		}
		return
	}

	h.record(r, "import_statement", "reconciliation_batch", nil)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// HandleListItems returns reconciliation items, optionally filtered by
// status and date range (from/to, YYYY-MM-DD).
func (h *ReconciliationHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var filter reconciliation.ItemFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := reconciliation.Status(s)
		if !status.Valid() {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = status
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.DateFrom = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.DateTo = t
	}

	items, err := h.ingestion.List(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing reconciliation items: %v", err)
		http.Error(w, "Failed to list reconciliation items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// HandleItemStatus manually transitions one item, e.g. marking a stray
// bank fee Ignored or forcing a match the tolerance window missed.
func (h *ReconciliationHandler) HandleItemStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var req UpdateItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.repo.UpdateStatus(r.Context(), id, reconciliation.Status(req.Status), req.MatchedTransactionID)
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrNotFound):
			http.Error(w, "Reconciliation item not found", http.StatusNotFound)
		case errors.Is(err, reconciliation.ErrInvalidTransition):
			http.Error(w, "Status and matched transaction are inconsistent", http.StatusBadRequest)
		case errors.Is(err, reconciliation.ErrTransactionClaimed):
			http.Error(w, "Transaction is already matched by another item", http.StatusConflict)
		default:
			log.Printf("Error updating reconciliation item %d: %v", id, err)
			http.Error(w, "Failed to update reconciliation item", http.StatusInternalServerError)
		}
		return
	}

	h.record(r, "update_item_status", "reconciliation_item", &item.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// HandleRematch re-runs matching over all Pending items.
func (h *ReconciliationHandler) HandleRematch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	matched, err := h.ingestion.Rematch(r.Context())
	if err != nil {
		log.Printf("Error rematching pending items: %v", err)
		http.Error(w, "Failed to rematch pending items", http.StatusInternalServerError)
		return
	}

	h.record(r, "rematch_pending", "reconciliation_item", nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"matchedCount": matched})
}

func (h *ReconciliationHandler) record(r *http.Request, action, entity string, entityID *int64) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		return
	}
	entry := audit.Entry{UserID: userID, Action: action, Entity: entity, EntityID: entityID}
	if err := h.auditLog.Record(r.Context(), entry); err != nil {
		log.Printf("Error recording action log (%s): %v", action, err)
	}
}
