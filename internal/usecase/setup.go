package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bankagent/internal/domain"
)

// demoUserName identifies the seeded demo user.
const demoUserName = "John Doe"

// DemoData describes the seeded demo ledger.
type DemoData struct {
	UserID   int64
	Account1 int64
	Account2 int64
}

// SeedDemoData creates the demo user with two funded accounts used by
// the interactive 'setup' command and the API setup endpoint. Running
// it again returns the existing demo ledger instead of duplicating it.
func SeedDemoData(ctx context.Context, store domain.LedgerStore) (*DemoData, error) {
	if existing, err := store.UserByName(ctx, demoUserName); err == nil {
		accounts, err := store.AccountsByUser(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list demo accounts: %w", err)
		}
		if len(accounts) >= 2 {
			log.Printf("demo data already present: user %d", existing.ID)
			return &DemoData{UserID: existing.ID, Account1: accounts[0].ID, Account2: accounts[1].ID}, nil
		}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up demo user: %w", err)
	}

	userID, err := store.CreateUser(ctx, demoUserName, "password123")
	if err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	acct1, err := store.CreateAccount(ctx, userID, 5000.00)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo account: %w", err)
	}
	acct2, err := store.CreateAccount(ctx, userID, 2000.00)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo account: %w", err)
	}

	log.Printf("demo setup complete: user %d, accounts %d and %d", userID, acct1, acct2)
	return &DemoData{UserID: userID, Account1: acct1, Account2: acct2}, nil
}
