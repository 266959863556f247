package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashup/internal/domain/transaction"
)

// MockLedger implements Ledger for testing
type MockLedger struct {
	QueryFunc func(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*transaction.Transaction, error)
}

func (m *MockLedger) Query(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*transaction.Transaction, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, from, to, value)
	}
	return nil, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func tx(id int64, d time.Time, value string) *transaction.Transaction {
	return &transaction.Transaction{ID: id, Type: transaction.TypeInflow, Date: d, Value: dec(value)}
}

func fixedLedger(txs ...*transaction.Transaction) *MockLedger {
	return &MockLedger{
		QueryFunc: func(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*transaction.Transaction, error) {
			return txs, nil
		},
	}
}

func TestMatch_TieBreakOnDateThenID(t *testing.T) {
	// Two candidates one day away on either side: the lowest id wins.
	ledger := fixedLedger(
		tx(5, date(2024, 3, 11), "150.00"),
		tx(2, date(2024, 3, 9), "150.00"),
	)
	m := NewMatcher(ledger)

	res, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, int64(2), res.TransactionID)
}

func TestMatch_PrefersClosestDate(t *testing.T) {
	ledger := fixedLedger(
		tx(1, date(2024, 3, 8), "150.00"),
		tx(9, date(2024, 3, 10), "150.00"),
	)
	m := NewMatcher(ledger)

	res, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, int64(9), res.TransactionID)
}

func TestMatch_ValueEpsilon(t *testing.T) {
	tests := []struct {
		name      string
		txValue   string
		wantMatch bool
	}{
		{"exact", "150.00", true},
		{"within epsilon", "150.01", true},
		{"beyond epsilon", "150.02", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(fixedLedger(tx(1, date(2024, 3, 10), tt.txValue)))
			res, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, res.Matched)
		})
	}
}

func TestMatch_DateWindow(t *testing.T) {
	tests := []struct {
		name      string
		txDate    time.Time
		wantMatch bool
	}{
		{"two days before", date(2024, 3, 8), true},
		{"two days after", date(2024, 3, 12), true},
		{"three days after", date(2024, 3, 13), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(fixedLedger(tx(1, tt.txDate, "150.00")))
			res, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, res.Matched)
		})
	}
}

func TestMatch_ClaimsWinnerForThePass(t *testing.T) {
	ledger := fixedLedger(tx(7, date(2024, 3, 10), "150.00"))
	m := NewMatcher(ledger)

	first, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.True(t, first.Matched)

	// Same transaction is off the table for the rest of the pass.
	second, err := m.Match(context.Background(), &Item{ID: 2, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.False(t, second.Matched)

	// A fresh matcher releases the claim.
	third, err := NewMatcher(ledger).Match(context.Background(), &Item{ID: 3, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.True(t, third.Matched)
}

func TestMatch_ClaimedFallsBackToNextCandidate(t *testing.T) {
	ledger := fixedLedger(
		tx(1, date(2024, 3, 10), "150.00"),
		tx(2, date(2024, 3, 11), "150.00"),
	)
	m := NewMatcher(ledger)

	first, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TransactionID)

	second, err := m.Match(context.Background(), &Item{ID: 2, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.True(t, second.Matched)
	assert.Equal(t, int64(2), second.TransactionID)
}

func TestMatch_NoCandidates(t *testing.T) {
	m := NewMatcher(fixedLedger())

	res, err := m.Match(context.Background(), &Item{ID: 1, Date: date(2024, 3, 10), Value: dec("150.00")})
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Zero(t, res.TransactionID)
}
