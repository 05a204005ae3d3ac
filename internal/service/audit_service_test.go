package service

import (
	"context"
	"strings"
	"testing"

	"bankagent/internal/repository/memory"
)

func TestRunAuditCleanLedger(t *testing.T) {
	ledger := memory.NewLedger()
	ctx := context.Background()

	userID, _ := ledger.CreateUser(ctx, "A", "pw")
	a1, _ := ledger.CreateAccount(ctx, userID, 5000)
	a2, _ := ledger.CreateAccount(ctx, userID, 2000)

	for i := 0; i < 3; i++ {
		if ok, msg, err := ledger.Transfer(ctx, a1, a2, 100); !ok || err != nil {
			t.Fatalf("transfer %d: %v %v", i, msg, err)
		}
	}

	if err := NewAuditService(ledger).RunAudit(ctx); err != nil {
		t.Errorf("RunAudit on clean ledger: %v", err)
	}
}

func TestRunAuditEmptyLedger(t *testing.T) {
	if err := NewAuditService(memory.NewLedger()).RunAudit(context.Background()); err != nil {
		t.Errorf("RunAudit on empty ledger: %v", err)
	}
}

func TestRunAuditDetectsNegativeBalance(t *testing.T) {
	ledger := memory.NewLedger()
	ctx := context.Background()

	userID, _ := ledger.CreateUser(ctx, "A", "pw")
	if _, err := ledger.CreateAccount(ctx, userID, -50); err != nil {
		t.Fatalf("create account: %v", err)
	}

	err := NewAuditService(ledger).RunAudit(ctx)
	if err == nil {
		t.Fatal("RunAudit passed a negative balance")
	}
	if !strings.Contains(err.Error(), "negative balance") {
		t.Errorf("error = %v, want negative balance report", err)
	}
}
