package rulebased

import (
	"context"
	"testing"

	"bankagent/internal/domain"
)

func TestClassifyIntents(t *testing.T) {
	tests := []struct {
		query      string
		wantIntent string
	}{
		{"what's my balance on account 1", domain.IntentCheckBalance},
		{"send $100 from account 1 to account 2", domain.IntentTransfer},
		{"move 50 dollars to account 2", domain.IntentTransfer},
		{"can I afford a $1200 laptop", domain.IntentWhatIf},
		{"show my transaction history", domain.IntentTransactions},
		{"how much have I spent this month", domain.IntentInsights},
		{"tell me a joke", domain.IntentUnknown},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result, err := c.Classify(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if result.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", result.Intent, tt.wantIntent)
			}
			if tt.wantIntent == domain.IntentUnknown && result.Confidence != 0 {
				t.Errorf("confidence = %v, want 0 for unknown", result.Confidence)
			}
			if tt.wantIntent != domain.IntentUnknown && result.Confidence < 0.5 {
				t.Errorf("confidence = %v, want at least 0.5", result.Confidence)
			}
		})
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantAccount   *int64
		wantRecipient *int64
		wantAmount    *float64
		wantPeriod    any
	}{
		{
			name:          "directional phrases",
			query:         "send $100.50 from account 1 to account 2",
			wantAccount:   ptr[int64](1),
			wantRecipient: ptr[int64](2),
			wantAmount:    ptr(100.50),
		},
		{
			name:        "bare account mention",
			query:       "balance of account 3",
			wantAccount: ptr[int64](3),
		},
		{
			name:          "two bare mentions fill both slots",
			query:         "move 25 dollars, account 1, account 2",
			wantAccount:   ptr[int64](1),
			wantRecipient: ptr[int64](2),
			wantAmount:    ptr(25.0),
		},
		{
			name:        "time period",
			query:       "spending on account 1 over the last 7 days",
			wantAccount: ptr[int64](1),
			wantPeriod:  "7 days",
		},
		{
			name:  "nothing extractable",
			query: "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := extractEntities(tt.query)

			checkInt64(t, "account_id", e.AccountID, tt.wantAccount)
			checkInt64(t, "recipient_account", e.RecipientAccount, tt.wantRecipient)
			checkFloat(t, "amount", e.Amount, tt.wantAmount)
			if e.TimePeriod != tt.wantPeriod {
				t.Errorf("time_period = %v, want %v", e.TimePeriod, tt.wantPeriod)
			}
		})
	}
}

func TestPlanMatchesIntent(t *testing.T) {
	p := NewPlanner()

	tests := []struct {
		intent         string
		wantTool       string
		wantValidation bool
	}{
		{domain.IntentCheckBalance, "get_balance", false},
		{domain.IntentTransfer, "transfer_money", true},
		{domain.IntentWhatIf, "simulate_transaction", true},
		{domain.IntentTransactions, "get_transactions", false},
		{domain.IntentInsights, "get_insights", false},
	}

	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			plan, err := p.Plan(context.Background(), tt.intent, domain.Entities{AccountID: ptr[int64](1)})
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if len(plan.Steps) != 1 {
				t.Fatalf("steps = %d, want 1", len(plan.Steps))
			}
			if plan.Steps[0].Tool != tt.wantTool {
				t.Errorf("tool = %q, want %q", plan.Steps[0].Tool, tt.wantTool)
			}
			if plan.RequiresValidation != tt.wantValidation {
				t.Errorf("requires_validation = %v, want %v", plan.RequiresValidation, tt.wantValidation)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func checkInt64(t *testing.T, field string, got, want *int64) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", field, deref(got), deref(want))
	case *got != *want:
		t.Errorf("%s = %d, want %d", field, *got, *want)
	}
}

func checkFloat(t *testing.T, field string, got, want *float64) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", field, deref(got), deref(want))
	case *got != *want:
		t.Errorf("%s = %v, want %v", field, *got, *want)
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
