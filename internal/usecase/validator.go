package usecase

import (
	"fmt"

	"bankagent/internal/domain"
)

// Validator re-checks executed step results against per-action
// business rules before they reach the user. Pure: no ledger access.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks one step result against the rule for its action. A
// failed step short-circuits with its own error text. Note the what_if
// rule: validity is the affordability verdict itself, not "executed
// without error" — an unaffordable simulation executed fine but is
// reported as invalid so the pipeline can surface the unfavorable
// outcome.
func (v *Validator) Validate(stepResult map[string]any, step domain.Step) (bool, string) {
	if success, _ := stepResult["success"].(bool); !success {
		if msg, ok := stepResult["error"].(string); ok && msg != "" {
			return false, msg
		}
		return false, "execution failed"
	}

	switch step.Action {
	case domain.IntentTransfer:
		return v.validateTransfer(stepResult)
	case domain.IntentWhatIf:
		return v.validateSimulation(stepResult)
	case domain.IntentCheckBalance:
		return v.validateBalance(stepResult)
	}

	return true, "validation passed"
}

func (v *Validator) validateTransfer(result map[string]any) (bool, string) {
	amount, _ := result["amount"].(float64)
	return true, fmt.Sprintf("transfer of $%.2f validated successfully", amount)
}

func (v *Validator) validateSimulation(result map[string]any) (bool, string) {
	if affordable, _ := result["affordable"].(bool); affordable {
		return true, "simulation shows transaction is affordable"
	}
	return false, "simulation shows transaction is not affordable"
}

func (v *Validator) validateBalance(result map[string]any) (bool, string) {
	if balance, ok := result["balance"].(float64); ok && balance >= 0 {
		return true, "balance check valid"
	}
	return false, "invalid balance result"
}
