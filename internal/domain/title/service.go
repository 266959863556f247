package title

import (
	"context"
	"fmt"
	"log"

	"cashup/internal/domain/transaction"
)

// SettlementService settles titles by writing the corresponding ledger
// transaction: settling a receivable records an inflow, settling a payable
// an outflow.
type SettlementService struct {
	titles       Repository
	transactions transaction.Repository
}

func NewSettlementService(titles Repository, transactions transaction.Repository) *SettlementService {
	return &SettlementService{
		titles:       titles,
		transactions: transactions,
	}
}

// Settle settles one title. Settling an already-settled title is a no-op
// returning the stored title unchanged.
func (s *SettlementService) Settle(ctx context.Context, id int64) (*Title, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == StatusSettled {
		return t, nil
	}

	txType := transaction.TypeOutflow
	value := t.Value.Neg()
	if t.Type == TypeReceivable {
		txType = transaction.TypeInflow
		value = t.Value
	}

	clientSupplier := t.ClientSupplier
	tx, err := s.transactions.Create(ctx, transaction.CreateTransactionParams{
		Type:           txType,
		Date:           t.DueDate,
		Value:          value,
		Description:    fmt.Sprintf("Settlement of title %d", t.ID),
		ClientSupplier: &clientSupplier,
	})
	if err != nil {
		return nil, fmt.Errorf("creating settlement transaction for title %d: %w", t.ID, err)
	}

	settled, err := s.titles.MarkSettled(ctx, t.ID, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("marking title %d settled: %w", t.ID, err)
	}

	log.Printf("Settled title %d with transaction %d", settled.ID, tx.ID)
	return settled, nil
}
