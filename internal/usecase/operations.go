package usecase

import (
	"context"
	"fmt"
	"log"

	"bankagent/internal/domain"
)

// MaxTransferAmount is the business-policy ceiling on a single
// transfer, checked before the store's own insufficient-funds check.
const MaxTransferAmount = 1_000_000

// Operations is the thin rule layer between the plan executor and the
// ledger store.
type Operations struct {
	store domain.LedgerStore
}

// NewOperations creates the operation library over a ledger store.
func NewOperations(store domain.LedgerStore) *Operations {
	return &Operations{store: store}
}

// GetBalance returns the balance for an account.
func (o *Operations) GetBalance(ctx context.Context, accountID int64) (float64, error) {
	return o.store.Balance(ctx, accountID)
}

// Transfer applies the policy gates and delegates to the store. Every
// rejection comes back as ok=false with a user-facing message;
// storage-layer failures are folded in after the store has rolled the
// transaction back.
func (o *Operations) Transfer(ctx context.Context, fromID, toID int64, amount float64) (bool, string) {
	if amount <= 0 {
		return false, domain.ErrInvalidAmount.Error()
	}
	if amount > MaxTransferAmount {
		return false, domain.ErrTransferLimit.Error()
	}

	ok, message, err := o.store.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		log.Printf("transfer %d -> %d failed: %v", fromID, toID, err)
		return false, fmt.Sprintf("transfer failed: %v", err)
	}
	return ok, message
}

// RecentTransactions returns up to limit transactions, most recent first.
func (o *Operations) RecentTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	return o.store.RecentTransactions(ctx, accountID, limit)
}

// Simulate checks whether the account could afford a hypothetical
// debit. Pure read: the ledger is never mutated. A missing account
// yields a defined degenerate result (current balance treated as zero,
// projection equal to the negative of the amount) tagged with an
// error field.
func (o *Operations) Simulate(ctx context.Context, accountID int64, amount float64) map[string]any {
	balance, err := o.store.Balance(ctx, accountID)
	if err != nil {
		return map[string]any{
			"affordable":        false,
			"current_balance":   0.0,
			"projected_balance": -amount,
			"amount":            amount,
			"error":             err.Error(),
		}
	}

	projected := balance - amount
	return map[string]any{
		"affordable":        projected >= 0,
		"current_balance":   balance,
		"projected_balance": projected,
		"amount":            amount,
	}
}

// GetInsights aggregates transaction totals per type tag over the
// trailing window.
func (o *Operations) GetInsights(ctx context.Context, accountID int64, windowDays int) (map[string]domain.TypeSummary, error) {
	return o.store.TransactionSummary(ctx, accountID, windowDays)
}

// DefaultAccountID returns the first account in storage. The executor
// uses it as a soft-fail fallback when a step omits the account id.
func (o *Operations) DefaultAccountID(ctx context.Context) (int64, error) {
	return o.store.FirstAccountID(ctx)
}
