package service

import (
	"context"
	"fmt"
	"log"
	"math"

	"bankagent/internal/domain"
)

// auditWindowDays covers the whole ledger lifetime for the
// double-entry check; the window parameter exists for user-facing
// insights, not for audits.
const auditWindowDays = 36500

// AuditService periodically cross-checks the ledger invariants: no
// negative balances and matching debit/credit totals across the whole
// book. A transfer that violated atomicity would show up here as
// drift between the two totals.
type AuditService struct {
	store domain.LedgerStore
}

// NewAuditService creates an AuditService over the ledger store.
func NewAuditService(store domain.LedgerStore) *AuditService {
	return &AuditService{store: store}
}

// RunAudit walks every account once and reports the first invariant
// violation found.
func (s *AuditService) RunAudit(ctx context.Context) error {
	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for audit: %w", err)
	}

	var balanceSum, debitTotal, creditTotal float64
	for _, account := range accounts {
		balanceSum += account.Balance
		if account.Balance < 0 {
			return fmt.Errorf("account %d has negative balance %.2f", account.ID, account.Balance)
		}

		summary, err := s.store.TransactionSummary(ctx, account.ID, auditWindowDays)
		if err != nil {
			return fmt.Errorf("failed to summarize account %d: %w", account.ID, err)
		}
		debitTotal += summary[domain.TxDebit].Total
		creditTotal += summary[domain.TxCredit].Total
	}

	// Float ledger with two-decimal semantics: allow sub-cent noise.
	if math.Abs(debitTotal-creditTotal) > 0.005 {
		return fmt.Errorf("double-entry drift: debits $%.2f vs credits $%.2f", debitTotal, creditTotal)
	}

	log.Printf("ledger audit passed: %d accounts, balance sum $%.2f, paired volume $%.2f",
		len(accounts), balanceSum, debitTotal)
	return nil
}
