package domain

import "time"

// Transaction type tags. Amounts are always stored positive; the
// direction of a movement is carried by the tag, not the sign.
const (
	TxDebit  = "debit"
	TxCredit = "credit"
)

// User owns zero or more accounts. Users are created by setup/admin
// actions and never mutated afterwards. The credential is stored as-is;
// it is a demo lookup, not a security boundary.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Credential string `json:"-"`
}

// Account holds a monetary balance with two-decimal currency semantics.
// The balance is only mutated through Transfer or explicit creation.
type Account struct {
	ID      int64   `json:"id"`
	UserID  int64   `json:"user_id"`
	Balance float64 `json:"balance"`
}

// Transaction is an immutable record of one ledger movement. Every
// successful transfer appends exactly one debit and one credit row
// sharing the same timestamp.
type Transaction struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// TypeSummary aggregates transactions of one type tag over a window.
type TypeSummary struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}
