package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a reconciliation item. Items are created
// Pending and only the matcher (or a manual review action) moves them on.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusMatched Status = "MATCHED"
	StatusIgnored Status = "IGNORED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusMatched, StatusIgnored:
		return true
	}
	return false
}

// Item is one persisted statement movement awaiting reconciliation.
// MatchedTransactionID is non-nil exactly when Status is StatusMatched;
// the store rejects updates that would break that.
type Item struct {
	ID                   int64           `json:"id"`
	ExternalID           *string         `json:"externalId,omitempty"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	Value                decimal.Decimal `json:"value"`
	Status               Status          `json:"status"`
	MatchedTransactionID *int64          `json:"matchedTransactionId,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// ItemFilter narrows List results. Zero values mean no constraint.
type ItemFilter struct {
	Status   Status
	DateFrom time.Time
	DateTo   time.Time
}
