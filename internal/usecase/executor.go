package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"bankagent/internal/domain"
)

// Canonical operation names every tool-name synonym resolves to.
const (
	opGetBalance   = "get_balance"
	opTransfer     = "transfer_money"
	opTransactions = "get_transactions"
	opSimulate     = "simulate_transaction"
	opInsights     = "get_insights"
)

// toolSynonyms maps the tool-name variations models tend to produce
// onto the five canonical operations.
var toolSynonyms = map[string]string{
	"get_balance":           opGetBalance,
	"account_balance_check": opGetBalance,
	"check_balance":         opGetBalance,
	"balance_check":         opGetBalance,
	"transfer_money":        opTransfer,
	"transfer_funds":        opTransfer,
	"transfer":              opTransfer,
	"get_transactions":      opTransactions,
	"fetch_transactions":    opTransactions,
	"recent_transactions":   opTransactions,
	"simulate_transaction":  opSimulate,
	"what_if":               opSimulate,
	"affordability_check":   opSimulate,
	"get_insights":          opInsights,
	"spending_insights":     opInsights,
	"insights":              opInsights,
}

var firstInteger = regexp.MustCompile(`\d+`)

// Executor maps planned steps onto operation library calls. Steps are
// independent: a failed step never aborts the remaining plan, and
// nothing propagates past this boundary as a panic or error.
type Executor struct {
	ops *Operations
}

// NewExecutor creates an executor over the operation library.
func NewExecutor(ops *Operations) *Executor {
	return &Executor{ops: ops}
}

// ExecutePlan runs every step in order and returns the merged result:
// each step's result under "step_<id>" plus a shallow flatten of its
// fields into the same map. Later steps overwrite colliding keys.
func (e *Executor) ExecutePlan(ctx context.Context, plan *domain.Plan) domain.Result {
	results := domain.Result{}

	for _, step := range plan.Steps {
		stepKey := fmt.Sprintf("step_%d", step.StepID)

		if step.Tool == "" {
			log.Printf("step %d is missing tool name: %+v", step.StepID, step)
			results[stepKey] = map[string]any{
				"success": false,
				"error":   "tool name is missing from plan step",
			}
			continue
		}

		log.Printf("executing step %d: %s", step.StepID, step.Tool)
		result := e.executeTool(ctx, step.Tool, step.Parameters)

		results[stepKey] = result
		for k, v := range result {
			results[k] = v
		}
	}

	return results
}

// executeTool dispatches one tool invocation by canonical name. Every
// failure, including a panic out of the operation layer, converts to a
// {success:false, error} result.
func (e *Executor) executeTool(ctx context.Context, tool string, params map[string]any) (result map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tool execution panic: %v", r)
			result = map[string]any{"success": false, "error": fmt.Sprintf("tool execution error: %v", r)}
		}
	}()

	normalized := strings.ToLower(tool)
	canonical, known := toolSynonyms[normalized]
	if !known {
		return map[string]any{
			"success": false,
			"error":   fmt.Sprintf("unknown tool: %s (normalized: %s)", tool, normalized),
		}
	}

	switch canonical {
	case opGetBalance:
		accountID, ok := e.resolveAccountID(ctx, params, "account_id", "from_account")
		if !ok {
			return map[string]any{"success": false, "error": "account_id required, please specify an account (e.g. 'account 1')"}
		}
		balance, err := e.ops.GetBalance(ctx, accountID)
		if err != nil {
			return map[string]any{"success": false, "error": err.Error(), "account_id": accountID}
		}
		return map[string]any{"success": true, "balance": balance, "account_id": accountID}

	case opTransfer:
		fromID, okFrom := int64Param(params, "account_id", "from_account")
		toID, okTo := int64Param(params, "recipient_account", "to_account")
		amount, okAmount := floatParam(params, "amount")
		if !okFrom || !okTo || !okAmount {
			return map[string]any{"success": false, "error": "missing required parameters"}
		}
		ok, message := e.ops.Transfer(ctx, fromID, toID, amount)
		if !ok {
			return map[string]any{"success": false, "error": message}
		}
		newBalance, _ := e.ops.GetBalance(ctx, fromID)
		return map[string]any{
			"success":      true,
			"amount":       amount,
			"from_account": fromID,
			"to_account":   toID,
			"new_balance":  newBalance,
			"message":      message,
		}

	case opTransactions:
		accountID, ok := e.resolveAccountID(ctx, params, "account_id")
		if !ok {
			return map[string]any{"success": false, "error": "account_id required, please specify an account (e.g. 'account 1')"}
		}
		limit, ok := int64Param(params, "limit")
		if !ok {
			limit = 10
		}
		txs, err := e.ops.RecentTransactions(ctx, accountID, int(limit))
		if err != nil {
			return map[string]any{"success": false, "error": err.Error(), "account_id": accountID}
		}
		return map[string]any{"success": true, "transactions": txs, "account_id": accountID}

	case opSimulate:
		accountID, okAccount := int64Param(params, "account_id")
		amount, okAmount := floatParam(params, "amount")
		if !okAccount || !okAmount {
			return map[string]any{"success": false, "error": "missing required parameters"}
		}
		result := map[string]any{"success": true}
		for k, v := range e.ops.Simulate(ctx, accountID, amount) {
			result[k] = v
		}
		return result

	case opInsights:
		accountID, ok := e.resolveAccountID(ctx, params, "account_id")
		if !ok {
			return map[string]any{"success": false, "error": "account_id required, please specify an account (e.g. 'account 1')"}
		}
		days := parseTimePeriod(params["time_period"])
		summary, err := e.ops.GetInsights(ctx, accountID, days)
		if err != nil {
			return map[string]any{"success": false, "error": err.Error(), "account_id": accountID}
		}
		return map[string]any{"success": true, "summary": summary, "account_id": accountID}
	}

	return map[string]any{
		"success": false,
		"error":   fmt.Sprintf("unknown tool: %s (normalized: %s)", tool, normalized),
	}
}

// resolveAccountID reads the account id from the first matching
// parameter key, falling back to the first stored account when none is
// given. The fallback is a deliberate soft-fail convenience so vague
// model output doesn't dead-end the pipeline; a stricter system would
// reject instead.
func (e *Executor) resolveAccountID(ctx context.Context, params map[string]any, keys ...string) (int64, bool) {
	if id, ok := int64Param(params, keys...); ok {
		return id, true
	}
	id, err := e.ops.DefaultAccountID(ctx)
	if err != nil {
		return 0, false
	}
	log.Printf("no account id in step parameters, falling back to account %d", id)
	return id, true
}

// parseTimePeriod normalizes a time-period-like value to a day count.
// Total and idempotent: numbers truncate to an integer, strings yield
// their first embedded integer, anything else defaults to 30 days.
func parseTimePeriod(v any) int {
	switch t := v.(type) {
	case nil:
		return 30
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if m := firstInteger.FindString(t); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n
			}
		}
	}
	log.Printf("could not parse time period %v, defaulting to 30 days", v)
	return 30
}

// int64Param reads the first present parameter under the given keys as
// an integer id. JSON numbers arrive as float64; zero values are
// treated as absent, matching how empty model output looks.
func int64Param(params map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		switch t := params[key].(type) {
		case int:
			if t != 0 {
				return int64(t), true
			}
		case int64:
			if t != 0 {
				return t, true
			}
		case float64:
			if t != 0 {
				return int64(t), true
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil && n != 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// floatParam reads the first present parameter under the given keys as
// an amount.
func floatParam(params map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch t := params[key].(type) {
		case int:
			if t != 0 {
				return float64(t), true
			}
		case int64:
			if t != 0 {
				return float64(t), true
			}
		case float64:
			if t != 0 {
				return t, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && f != 0 {
				return f, true
			}
		}
	}
	return 0, false
}
