package usecase

import (
	"strings"
	"testing"

	"bankagent/internal/domain"
)

func TestValidateFailedStep(t *testing.T) {
	v := NewValidator()

	valid, msg := v.Validate(map[string]any{
		"success": false,
		"error":   "insufficient balance, available: $50.00",
	}, domain.Step{Action: domain.IntentTransfer})
	if valid {
		t.Fatal("failed step validated")
	}
	if msg != "insufficient balance, available: $50.00" {
		t.Errorf("message = %q, want the step's own error", msg)
	}

	valid, msg = v.Validate(map[string]any{"success": false}, domain.Step{Action: domain.IntentTransfer})
	if valid || msg != "execution failed" {
		t.Errorf("Validate = %v, %q, want false, %q", valid, msg, "execution failed")
	}
}

func TestValidateTransfer(t *testing.T) {
	v := NewValidator()

	valid, msg := v.Validate(map[string]any{
		"success": true,
		"amount":  123.45,
	}, domain.Step{Action: domain.IntentTransfer})
	if !valid {
		t.Fatalf("successful transfer invalid: %s", msg)
	}
	if !strings.Contains(msg, "$123.45") {
		t.Errorf("message = %q, want the amount with two decimals", msg)
	}
}

func TestValidateSimulation(t *testing.T) {
	v := NewValidator()

	// Affordability is the validity verdict: an unaffordable simulation
	// executed fine but is still invalid.
	valid, _ := v.Validate(map[string]any{
		"success":    true,
		"affordable": true,
	}, domain.Step{Action: domain.IntentWhatIf})
	if !valid {
		t.Error("affordable simulation marked invalid")
	}

	valid, msg := v.Validate(map[string]any{
		"success":    true,
		"affordable": false,
	}, domain.Step{Action: domain.IntentWhatIf})
	if valid {
		t.Error("unaffordable simulation marked valid")
	}
	if !strings.Contains(msg, "not affordable") {
		t.Errorf("message = %q, want affordability verdict", msg)
	}
}

func TestValidateBalance(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		result map[string]any
		want   bool
	}{
		{"positive balance", map[string]any{"success": true, "balance": 100.0}, true},
		{"zero balance", map[string]any{"success": true, "balance": 0.0}, true},
		{"negative balance", map[string]any{"success": true, "balance": -1.0}, false},
		{"missing balance", map[string]any{"success": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, _ := v.Validate(tt.result, domain.Step{Action: domain.IntentCheckBalance})
			if valid != tt.want {
				t.Errorf("Validate = %v, want %v", valid, tt.want)
			}
		})
	}
}

func TestValidateUnknownActionPasses(t *testing.T) {
	v := NewValidator()

	valid, msg := v.Validate(map[string]any{"success": true}, domain.Step{Action: "insights"})
	if !valid || msg != "validation passed" {
		t.Errorf("Validate = %v, %q, want true, %q", valid, msg, "validation passed")
	}
}
