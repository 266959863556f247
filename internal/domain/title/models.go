package title

import (
	"time"

	"github.com/shopspring/decimal"
)

// Title types and statuses.
const (
	TypePayable    = "PAYABLE"
	TypeReceivable = "RECEIVABLE"

	StatusPending = "PENDING"
	StatusSettled = "SETTLED"
)

// Title is a payable or receivable awaiting settlement. Value is always
// positive; the type says which way money moves when it settles.
type Title struct {
	ID             int64           `json:"id"`
	Type           string          `json:"type"`
	ClientSupplier string          `json:"clientSupplier"`
	DueDate        time.Time       `json:"dueDate"`
	Value          decimal.Decimal `json:"value"`
	Status         string          `json:"status"`
	PaymentMethod  *string         `json:"paymentMethod,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	TransactionID  *int64          `json:"transactionId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type CreateTitleParams struct {
	Type           string
	ClientSupplier string
	DueDate        time.Time
	Value          decimal.Decimal
	PaymentMethod  *string
	Notes          *string
}
