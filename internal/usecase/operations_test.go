package usecase

import (
	"context"
	"strings"
	"testing"

	"bankagent/internal/domain"
	"bankagent/internal/repository/memory"
)

// newTestOps returns an operation library over a fresh in-memory
// ledger seeded with the demo data: accounts 1 ($5000) and 2 ($2000).
func newTestOps(t *testing.T) (*Operations, *memory.Ledger) {
	t.Helper()

	ledger := memory.NewLedger()
	if _, err := SeedDemoData(context.Background(), ledger); err != nil {
		t.Fatalf("seed demo data: %v", err)
	}
	return NewOperations(ledger), ledger
}

func TestTransferPolicyGates(t *testing.T) {
	ops, ledger := newTestOps(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  float64
		wantMsg string
	}{
		{"zero amount", 0, domain.ErrInvalidAmount.Error()},
		{"negative amount", -50, domain.ErrInvalidAmount.Error()},
		{"over ceiling", MaxTransferAmount + 1, domain.ErrTransferLimit.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := ops.Transfer(ctx, 1, 2, tt.amount)
			if ok {
				t.Fatalf("Transfer(%v) ok = true, want rejection", tt.amount)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}

	// Policy rejections must never touch the ledger.
	if balance, _ := ledger.Balance(ctx, 1); balance != 5000.00 {
		t.Errorf("source balance after rejections = %v, want 5000.00", balance)
	}
	if txs, _ := ledger.RecentTransactions(ctx, 1, 10); len(txs) != 0 {
		t.Errorf("rejections recorded %d transactions, want 0", len(txs))
	}
}

func TestTransferAtCeiling(t *testing.T) {
	ops, ledger := newTestOps(t)
	ctx := context.Background()

	// Exactly the ceiling passes the policy gate; the store then
	// rejects it for insufficient funds without mutating anything.
	ok, msg := ops.Transfer(ctx, 1, 2, MaxTransferAmount)
	if ok {
		t.Fatal("Transfer at ceiling succeeded against a $5000 account")
	}
	if !strings.Contains(msg, "insufficient balance") {
		t.Errorf("message = %q, want insufficient balance rejection", msg)
	}
	if balance, _ := ledger.Balance(ctx, 1); balance != 5000.00 {
		t.Errorf("balance after rejection = %v, want 5000.00", balance)
	}
}

func TestTransferSuccess(t *testing.T) {
	ops, ledger := newTestOps(t)
	ctx := context.Background()

	ok, msg := ops.Transfer(ctx, 1, 2, 250.50)
	if !ok {
		t.Fatalf("Transfer failed: %s", msg)
	}
	if !strings.Contains(msg, "250.50") {
		t.Errorf("message = %q, want the amount with two decimals", msg)
	}

	if balance, _ := ledger.Balance(ctx, 1); balance != 4749.50 {
		t.Errorf("source balance = %v, want 4749.50", balance)
	}
	if balance, _ := ledger.Balance(ctx, 2); balance != 2250.50 {
		t.Errorf("destination balance = %v, want 2250.50", balance)
	}
}

func TestSimulate(t *testing.T) {
	ops, ledger := newTestOps(t)
	ctx := context.Background()

	tests := []struct {
		name           string
		accountID      int64
		amount         float64
		wantAffordable bool
		wantProjected  float64
	}{
		{"affordable", 1, 3000, true, 2000},
		{"exactly zero projection", 1, 5000, true, 0},
		{"unaffordable", 1, 5000.01, false, -0.01},
		{"missing account", 99, 100, false, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ops.Simulate(ctx, tt.accountID, tt.amount)

			if affordable := result["affordable"].(bool); affordable != tt.wantAffordable {
				t.Errorf("affordable = %v, want %v", affordable, tt.wantAffordable)
			}
			projected := result["projected_balance"].(float64)
			if diff := projected - tt.wantProjected; diff > 0.001 || diff < -0.001 {
				t.Errorf("projected_balance = %v, want %v", projected, tt.wantProjected)
			}
			if amount := result["amount"].(float64); amount != tt.amount {
				t.Errorf("amount = %v, want %v", amount, tt.amount)
			}
		})
	}

	// Missing account result carries the error and a zero current balance.
	result := ops.Simulate(ctx, 99, 100)
	if _, ok := result["error"]; !ok {
		t.Error("missing-account simulation has no error field")
	}
	if current := result["current_balance"].(float64); current != 0.0 {
		t.Errorf("current_balance = %v, want 0.0", current)
	}

	// Simulation is a pure read.
	if balance, _ := ledger.Balance(ctx, 1); balance != 5000.00 {
		t.Errorf("balance after simulations = %v, want 5000.00", balance)
	}
	if txs, _ := ledger.RecentTransactions(ctx, 1, 10); len(txs) != 0 {
		t.Errorf("simulations recorded %d transactions, want 0", len(txs))
	}
}

func TestSimulateIdempotent(t *testing.T) {
	ops, _ := newTestOps(t)
	ctx := context.Background()

	first := ops.Simulate(ctx, 1, 1200)
	second := ops.Simulate(ctx, 1, 1200)

	for _, key := range []string{"affordable", "current_balance", "projected_balance", "amount"} {
		if first[key] != second[key] {
			t.Errorf("%s differs between runs: %v vs %v", key, first[key], second[key])
		}
	}
}

func TestDefaultAccountID(t *testing.T) {
	ops, _ := newTestOps(t)

	id, err := ops.DefaultAccountID(context.Background())
	if err != nil {
		t.Fatalf("DefaultAccountID: %v", err)
	}
	if id != 1 {
		t.Errorf("default account = %d, want 1", id)
	}

	empty := NewOperations(memory.NewLedger())
	if _, err := empty.DefaultAccountID(context.Background()); err == nil {
		t.Error("DefaultAccountID on empty ledger returned no error")
	}
}
