package domain

// Known intents produced by the classifier. Anything else is treated
// as "unknown" and answered with a generic response.
const (
	IntentCheckBalance = "check_balance"
	IntentTransfer     = "transfer"
	IntentTransactions = "transactions"
	IntentWhatIf       = "what_if"
	IntentInsights     = "insights"
	IntentUnknown      = "unknown"
)

// intentTools maps each known intent to the canonical tool that
// serves it. Used for fallback plans and for repairing model plans
// with missing tool names.
var intentTools = map[string]string{
	IntentCheckBalance: "get_balance",
	IntentTransfer:     "transfer_money",
	IntentTransactions: "get_transactions",
	IntentWhatIf:       "simulate_transaction",
	IntentInsights:     "get_insights",
}

// ToolForIntent returns the canonical tool for an intent, or false for
// intents with no ledger-facing operation.
func ToolForIntent(intent string) (string, bool) {
	tool, ok := intentTools[intent]
	return tool, ok
}

// Entities are the structured parameters extracted from free text.
// Pointer fields distinguish "absent" from zero. TimePeriod is left
// untyped because models return it as either a number or a string
// like "10 days"; the executor normalizes it.
type Entities struct {
	AccountID        *int64   `json:"account_id"`
	Amount           *float64 `json:"amount"`
	RecipientAccount *int64   `json:"recipient_account"`
	TimePeriod       any      `json:"time_period"`
}

// ToParams flattens the entities into a step parameter map, skipping
// absent fields.
func (e Entities) ToParams() map[string]any {
	params := make(map[string]any)
	if e.AccountID != nil {
		params["account_id"] = *e.AccountID
	}
	if e.Amount != nil {
		params["amount"] = *e.Amount
	}
	if e.RecipientAccount != nil {
		params["recipient_account"] = *e.RecipientAccount
	}
	if e.TimePeriod != nil {
		params["time_period"] = e.TimePeriod
	}
	return params
}

// Classification is the classifier's verdict on one user query.
type Classification struct {
	Intent     string   `json:"intent"`
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"confidence"`
}

// Step is one planned tool invocation. Tool names arrive from the
// model and may be synonyms of the canonical operations; the executor
// normalizes them.
type Step struct {
	StepID      int            `json:"step_id"`
	Action      string         `json:"action"`
	Tool        string         `json:"tool"`
	Parameters  map[string]any `json:"parameters"`
	Description string         `json:"description"`
}

// Plan is a transient ordered sequence of steps. Produced once per
// query, consumed once, discarded.
type Plan struct {
	Steps              []Step `json:"steps"`
	RequiresValidation bool   `json:"requires_validation"`
}

// Result is the merged execution outcome: per-step results keyed by
// "step_<id>" plus a shallow flatten of each step's fields for the
// responder. On colliding keys the later step wins.
type Result map[string]any
