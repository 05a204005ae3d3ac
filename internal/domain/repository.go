package domain

import "context"

// LedgerStore defines the persistence operations for users, accounts
// and transactions. Implementations must serialize conflicting
// transfers so the balance check and both balance updates are observed
// as one atomic unit.
type LedgerStore interface {
	// CreateUser creates a new user and returns its id. Names are not unique.
	CreateUser(ctx context.Context, name, credential string) (int64, error)

	// UserByName retrieves a user by display name.
	UserByName(ctx context.Context, name string) (*User, error)

	// CreateAccount creates a new account for a user and returns its id.
	// The user id is not verified beyond the declared foreign key.
	CreateAccount(ctx context.Context, userID int64, initialBalance float64) (int64, error)

	// Balance returns the balance for an account, or ErrAccountNotFound.
	Balance(ctx context.Context, accountID int64) (float64, error)

	// Accounts returns every account in the ledger.
	Accounts(ctx context.Context) ([]Account, error)

	// AccountsByUser returns all accounts owned by a user.
	AccountsByUser(ctx context.Context, userID int64) ([]Account, error)

	// FirstAccountID returns the id of the first stored account, or
	// ErrAccountNotFound on an empty ledger. Used as the executor's
	// default-account fallback.
	FirstAccountID(ctx context.Context) (int64, error)

	// Transfer moves amount from one account to another. Business
	// rejections (missing account, insufficient funds) come back as
	// ok=false with a descriptive message and a nil error. On success
	// it atomically decrements the source, increments the destination
	// and appends one debit and one credit row sharing an identical
	// timestamp. A storage failure rolls everything back and returns a
	// non-nil error.
	Transfer(ctx context.Context, fromID, toID int64, amount float64) (ok bool, message string, err error)

	// RecentTransactions returns up to limit transactions for an
	// account, most recent first.
	RecentTransactions(ctx context.Context, accountID int64, limit int) ([]Transaction, error)

	// TransactionSummary aggregates transactions per type tag over the
	// trailing window. The boundary is non-strict: a transaction
	// stamped exactly now-windowDays is included.
	TransactionSummary(ctx context.Context, accountID int64, windowDays int) (map[string]TypeSummary, error)
}
