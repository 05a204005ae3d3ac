package adapter

import "fmt"

const classifierSystemPrompt = "You are a precise intent parser. Always return valid JSON only."

const plannerSystemPrompt = "You are a precise planner. Always return valid JSON only."

func classifyPrompt(query string) string {
	return fmt.Sprintf(`You are an intent parser for a banking assistant.
Parse the user's query and extract:
1. Intent (check_balance, transfer, transactions, what_if, insights)
2. Entities (account_id, amount, recipient_account, time_period)

IMPORTANT: Extract account_id from phrases like "account 1", "account 7", "account one", etc.
Extract time_period from phrases like "10 days", "30 days", "last week", etc. (return as string with number and "days")

User query: %s

Return ONLY valid JSON in this format:
{
    "intent": "intent_name",
    "entities": {
        "account_id": null or number (extract from "account X" patterns),
        "amount": null or number,
        "recipient_account": null or number,
        "time_period": null or string (e.g., "10 days", "30 days")
    },
    "confidence": 0.0-1.0
}
`, query)
}

func planPrompt(intent, entityJSON string) string {
	return fmt.Sprintf(`You are a planner for a banking assistant.
Given the intent and entities, create a step-by-step execution plan.

Intent: %s
Entities: %s

AVAILABLE TOOLS (use EXACTLY these names):
- "get_balance" - Check account balance (requires: account_id)
- "transfer_money" - Transfer money between accounts (requires: account_id/from_account, recipient_account/to_account, amount)
- "get_transactions" - Get recent transactions (requires: account_id, optional: limit)
- "simulate_transaction" - Check if transaction is affordable (requires: account_id, amount)
- "get_insights" - Get spending insights (requires: account_id, optional: time_period/days)

Return ONLY valid JSON in this format:
{
    "steps": [
        {
            "step_id": 1,
            "action": "action_name",
            "tool": "tool_function_name",
            "parameters": {},
            "description": "what this step does"
        }
    ],
    "requires_validation": true/false
}

IMPORTANT: Use ONLY the exact tool names listed above. Do not invent new tool names.
`, intent, entityJSON)
}
