package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bankagent/internal/domain"
)

// txTimeLayout is a fixed-width UTC layout so the persisted timestamp
// text sorts lexicographically in chronological order.
const txTimeLayout = "2006-01-02T15:04:05.000000000Z"

// LedgerRepository implements domain.LedgerStore on PostgreSQL.
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerStore {
	return &LedgerRepository{db: db}
}

// CreateUser creates a new user. Names are not unique by design.
func (r *LedgerRepository) CreateUser(ctx context.Context, name, credential string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, credential) VALUES ($1, $2) RETURNING id`,
		name, credential,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// UserByName retrieves a user by display name. With duplicate names
// the lowest id wins.
func (r *LedgerRepository) UserByName(ctx context.Context, name string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, credential FROM users WHERE name = $1 ORDER BY id LIMIT 1`,
		name,
	).Scan(&user.ID, &user.Name, &user.Credential)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, name)
		}
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}
	return user, nil
}

// CreateAccount creates a new account for a user. The foreign key is
// declarative only; the user id is not validated here.
func (r *LedgerRepository) CreateAccount(ctx context.Context, userID int64, initialBalance float64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (user_id, balance) VALUES ($1, $2) RETURNING id`,
		userID, initialBalance,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	return id, nil
}

// Balance returns the balance for an account.
func (r *LedgerRepository) Balance(ctx context.Context, accountID int64) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE id = $1`,
		accountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %d", domain.ErrAccountNotFound, accountID)
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Accounts returns every account in the ledger, ordered by id.
func (r *LedgerRepository) Accounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, balance FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// AccountsByUser returns all accounts owned by a user, ordered by id.
func (r *LedgerRepository) AccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, balance FROM accounts WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query user accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// FirstAccountID returns the id of the first stored account.
func (r *LedgerRepository) FirstAccountID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM accounts ORDER BY id LIMIT 1`,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: ledger has no accounts", domain.ErrAccountNotFound)
		}
		return 0, fmt.Errorf("failed to get first account: %w", err)
	}
	return id, nil
}

// Transfer executes the double-entry move inside one database
// transaction. Both account rows are locked with SELECT ... FOR UPDATE
// in ascending id order so concurrent transfers over the same pair
// cannot deadlock or interleave between the balance check and the
// updates. Any failure after Begin rolls the whole unit back.
func (r *LedgerRepository) Transfer(ctx context.Context, fromID, toID int64, amount float64) (bool, string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, "", fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	balances := map[int64]float64{}
	for _, id := range lockOrder(fromID, toID) {
		var balance float64
		err := tx.QueryRow(ctx,
			`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			if id == fromID {
				return false, fmt.Sprintf("source account %d not found", fromID), nil
			}
			return false, fmt.Sprintf("destination account %d not found", toID), nil
		}
		if err != nil {
			return false, "", fmt.Errorf("failed to lock account %d: %w", id, err)
		}
		balances[id] = balance
	}

	if balances[fromID] < amount {
		return false, fmt.Sprintf("insufficient balance, available: $%.2f", balances[fromID]), nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = balance - $1 WHERE id = $2`,
		amount, fromID,
	); err != nil {
		return false, "", fmt.Errorf("failed to debit source account: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE id = $2`,
		amount, toID,
	); err != nil {
		return false, "", fmt.Errorf("failed to credit destination account: %w", err)
	}

	// One debit and one credit row sharing an identical timestamp: the
	// double-entry pairing invariant.
	stamp := time.Now().UTC().Format(txTimeLayout)
	if _, err := tx.Exec(ctx,
		`INSERT INTO transactions (account_id, type, amount, timestamp) VALUES ($1, $2, $3, $4)`,
		fromID, domain.TxDebit, amount, stamp,
	); err != nil {
		return false, "", fmt.Errorf("failed to log debit: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO transactions (account_id, type, amount, timestamp) VALUES ($1, $2, $3, $4)`,
		toID, domain.TxCredit, amount, stamp,
	); err != nil {
		return false, "", fmt.Errorf("failed to log credit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, "", fmt.Errorf("failed to commit transfer: %w", err)
	}

	return true, fmt.Sprintf("successfully transferred $%.2f", amount), nil
}

// lockOrder returns the two account ids in ascending order. Self
// transfers lock the row once.
func lockOrder(a, b int64) []int64 {
	if a == b {
		return []int64{a}
	}
	if a < b {
		return []int64{a, b}
	}
	return []int64{b, a}
}

// RecentTransactions returns up to limit transactions, most recent first.
func (r *LedgerRepository) RecentTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, account_id, type, amount, timestamp
		 FROM transactions
		 WHERE account_id = $1
		 ORDER BY timestamp DESC, id DESC
		 LIMIT $2`,
		accountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var stamp string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &stamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Timestamp, err = time.Parse(txTimeLayout, stamp); err != nil {
			return nil, fmt.Errorf("failed to parse transaction timestamp %q: %w", stamp, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// TransactionSummary aggregates per type tag over the trailing window.
// The comparison is non-strict (>=): a row stamped exactly at the
// boundary is included.
func (r *LedgerRepository) TransactionSummary(ctx context.Context, accountID int64, windowDays int) (map[string]domain.TypeSummary, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -windowDays).Format(txTimeLayout)

	rows, err := r.db.Query(ctx,
		`SELECT type, SUM(amount), COUNT(*)
		 FROM transactions
		 WHERE account_id = $1 AND timestamp >= $2
		 GROUP BY type`,
		accountID, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction summary: %w", err)
	}
	defer rows.Close()

	summary := make(map[string]domain.TypeSummary)
	for rows.Next() {
		var typ string
		var s domain.TypeSummary
		if err := rows.Scan(&typ, &s.Total, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary[typ] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary: %w", err)
	}
	return summary, nil
}
