package usecase

import (
	"fmt"
	"strings"

	"bankagent/internal/domain"
)

// Responder turns a merged execution result into a natural-language
// reply. Pure formatting: it branches on the originating intent,
// prints money with two decimals and tolerates missing fields.
type Responder struct{}

// NewResponder creates a Responder.
func NewResponder() *Responder {
	return &Responder{}
}

// Respond formats the result map for the given intent.
func (r *Responder) Respond(results domain.Result, intent string) string {
	switch intent {
	case domain.IntentCheckBalance:
		return r.formatBalance(results)
	case domain.IntentTransfer:
		return r.formatTransfer(results)
	case domain.IntentTransactions:
		return r.formatTransactions(results)
	case domain.IntentWhatIf:
		return r.formatSimulation(results)
	case domain.IntentInsights:
		return r.formatInsights(results)
	}
	return r.formatGeneric(results)
}

func (r *Responder) formatBalance(results domain.Result) string {
	if errMsg, ok := results["error"].(string); ok && errMsg != "" {
		if strings.Contains(strings.ToLower(errMsg), "not found") {
			return fmt.Sprintf("Account %v not found. Run 'setup' to create demo accounts first.", results["account_id"])
		}
		return errMsg
	}

	if balance, ok := results["balance"].(float64); ok {
		return fmt.Sprintf("Your account %v balance is $%.2f", results["account_id"], balance)
	}
	return "Unable to retrieve balance. Check the account id or run 'setup' to create demo accounts."
}

func (r *Responder) formatTransfer(results domain.Result) string {
	if success, _ := results["success"].(bool); !success {
		return fmt.Sprintf("Transfer failed: %s", errorText(results))
	}

	amount, _ := results["amount"].(float64)
	var b strings.Builder
	b.WriteString("Transfer successful!\n")
	fmt.Fprintf(&b, "Transferred $%.2f from account %v to account %v.",
		amount, results["from_account"], results["to_account"])
	if newBalance, ok := results["new_balance"].(float64); ok {
		fmt.Fprintf(&b, "\nYour new balance is $%.2f", newBalance)
	}
	return b.String()
}

func (r *Responder) formatTransactions(results domain.Result) string {
	txs, _ := results["transactions"].([]domain.Transaction)
	if len(txs) == 0 {
		return "No recent transactions found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent transactions (%d):\n", len(txs))
	for _, tx := range txs {
		fmt.Fprintf(&b, "  %s: $%.2f on %s\n",
			strings.ToUpper(tx.Type), tx.Amount, tx.Timestamp.Format("2006-01-02"))
	}
	return b.String()
}

func (r *Responder) formatSimulation(results domain.Result) string {
	affordable, _ := results["affordable"].(bool)
	current, _ := results["current_balance"].(float64)
	amount, _ := results["amount"].(float64)
	projected, _ := results["projected_balance"].(float64)

	var b strings.Builder
	b.WriteString("Affordability check:\n")
	fmt.Fprintf(&b, "Current balance: $%.2f\n", current)
	fmt.Fprintf(&b, "Transaction amount: $%.2f\n", amount)
	fmt.Fprintf(&b, "Projected balance: $%.2f\n", projected)
	if affordable {
		b.WriteString("This transaction is affordable.")
	} else {
		b.WriteString("This transaction would result in insufficient funds.")
	}
	return b.String()
}

func (r *Responder) formatInsights(results domain.Result) string {
	summary, _ := results["summary"].(map[string]domain.TypeSummary)
	if len(summary) == 0 {
		return "No insights available for this account."
	}

	debits := summary[domain.TxDebit].Total
	credits := summary[domain.TxCredit].Total

	var b strings.Builder
	b.WriteString("Spending insights (last 30 days):\n")
	fmt.Fprintf(&b, "Total spent: $%.2f\n", debits)
	fmt.Fprintf(&b, "Total received: $%.2f\n", credits)
	fmt.Fprintf(&b, "Net change: $%.2f", credits-debits)
	if debits > 0 {
		fmt.Fprintf(&b, "\nAverage daily spending: $%.2f", debits/30)
	}
	return b.String()
}

func (r *Responder) formatGeneric(results domain.Result) string {
	if success, _ := results["success"].(bool); success {
		return "Operation completed successfully."
	}
	return fmt.Sprintf("Operation failed: %s", errorText(results))
}

func errorText(results domain.Result) string {
	if msg, ok := results["error"].(string); ok && msg != "" {
		return msg
	}
	return "unknown error"
}
