package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"cashup/internal/domain/transaction"
)

const (
	// matchDateToleranceDays absorbs posting-date vs value-date skew
	// between bank statements and ledger entries.
	matchDateToleranceDays = 2
)

// matchValueEpsilon absorbs float rounding in legacy data. Deliberately
// tight: the amount is the primary discriminator between candidates.
var matchValueEpsilon = decimal.New(1, -2) // 0.01

// MatchResult is the outcome of matching one item against the ledger.
type MatchResult struct {
	Matched       bool
	TransactionID int64
}

// Matcher links reconciliation items to ledger transactions. A Matcher
// tracks the transactions claimed during one matching pass so that at most
// one item can match any given transaction; create a fresh Matcher per
// pass to release the claims.
type Matcher struct {
	ledger Ledger

	mu      sync.Mutex
	claimed map[int64]bool
}

func NewMatcher(ledger Ledger) *Matcher {
	return &Matcher{
		ledger:  ledger,
		claimed: make(map[int64]bool),
	}
}

// Match looks for a ledger transaction within ±2 days of the item's date
// whose value differs by at most 0.01. When several qualify, the smallest
// absolute date difference wins, then the lowest transaction id, so
// repeated passes over the same inputs assign identically. A successful
// match claims the transaction for the remainder of the pass.
func (m *Matcher) Match(ctx context.Context, item *Item) (MatchResult, error) {
	from := item.Date.AddDate(0, 0, -matchDateToleranceDays)
	to := item.Date.AddDate(0, 0, matchDateToleranceDays)

	candidates, err := m.ledger.Query(ctx, from, to, item.Value)
	if err != nil {
		return MatchResult{}, fmt.Errorf("querying ledger for item %d: %w", item.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var best *transaction.Transaction
	var bestDelta time.Duration
	for _, c := range candidates {
		if m.claimed[c.ID] {
			continue
		}
		if c.Value.Sub(item.Value).Abs().GreaterThan(matchValueEpsilon) {
			continue
		}
		delta := absDateDelta(item.Date, c.Date)
		if delta > matchDateToleranceDays*24*time.Hour {
			continue
		}
		if best == nil || delta < bestDelta || (delta == bestDelta && c.ID < best.ID) {
			best = c
			bestDelta = delta
		}
	}

	if best == nil {
		return MatchResult{}, nil
	}
	m.claimed[best.ID] = true
	return MatchResult{Matched: true, TransactionID: best.ID}, nil
}

func absDateDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}
