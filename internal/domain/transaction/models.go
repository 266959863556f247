package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Value is signed regardless (positive inflow, negative
// outflow); the type is kept for display and filtering.
const (
	TypeInflow  = "INFLOW"
	TypeOutflow = "OUTFLOW"
)

type Transaction struct {
	ID             int64           `json:"id"`
	Type           string          `json:"type"`
	Date           time.Time       `json:"date"`
	Value          decimal.Decimal `json:"value"`
	Description    string          `json:"description"`
	ClientSupplier *string         `json:"clientSupplier,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type CreateTransactionParams struct {
	Type           string
	Date           time.Time
	Value          decimal.Decimal
	Description    string
	ClientSupplier *string
}
