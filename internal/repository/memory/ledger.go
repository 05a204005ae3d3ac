package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bankagent/internal/domain"
)

var _ domain.LedgerStore = (*Ledger)(nil)

// Ledger is an in-memory LedgerStore used when no DATABASE_URL is
// configured and by the unit tests. A single mutex acts as the writer
// lock, so conflicting transfers are fully serialized: the balance
// check and both balance updates happen under one critical section.
type Ledger struct {
	mu sync.RWMutex

	users        map[int64]*domain.User
	accounts     map[int64]*domain.Account
	accountIDs   []int64 // insertion order
	transactions []domain.Transaction

	nextUserID    int64
	nextAccountID int64
	nextTxID      int64
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		users:    make(map[int64]*domain.User),
		accounts: make(map[int64]*domain.Account),
	}
}

func (l *Ledger) CreateUser(ctx context.Context, name, credential string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextUserID++
	l.users[l.nextUserID] = &domain.User{ID: l.nextUserID, Name: name, Credential: credential}
	return l.nextUserID, nil
}

func (l *Ledger) UserByName(ctx context.Context, name string) (*domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Names are not unique; the lowest id wins, matching insertion order.
	var found *domain.User
	for _, u := range l.users {
		if u.Name == name && (found == nil || u.ID < found.ID) {
			found = u
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, name)
	}
	cp := *found
	return &cp, nil
}

func (l *Ledger) CreateAccount(ctx context.Context, userID int64, initialBalance float64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextAccountID++
	l.accounts[l.nextAccountID] = &domain.Account{ID: l.nextAccountID, UserID: userID, Balance: initialBalance}
	l.accountIDs = append(l.accountIDs, l.nextAccountID)
	return l.nextAccountID, nil
}

func (l *Ledger) Balance(ctx context.Context, accountID int64) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, exists := l.accounts[accountID]
	if !exists {
		return 0, fmt.Errorf("%w: account %d", domain.ErrAccountNotFound, accountID)
	}
	return account.Balance, nil
}

func (l *Ledger) Accounts(ctx context.Context) ([]domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(l.accountIDs))
	for _, id := range l.accountIDs {
		accounts = append(accounts, *l.accounts[id])
	}
	return accounts, nil
}

func (l *Ledger) AccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var accounts []domain.Account
	for _, id := range l.accountIDs {
		if l.accounts[id].UserID == userID {
			accounts = append(accounts, *l.accounts[id])
		}
	}
	return accounts, nil
}

func (l *Ledger) FirstAccountID(ctx context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.accountIDs) == 0 {
		return 0, fmt.Errorf("%w: ledger has no accounts", domain.ErrAccountNotFound)
	}
	return l.accountIDs[0], nil
}

// Transfer performs the double-entry move under the writer lock.
// Either all four effects land (two balance updates, one debit row,
// one credit row with an identical timestamp) or none do.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID int64, amount float64) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, exists := l.accounts[fromID]
	if !exists {
		return false, fmt.Sprintf("source account %d not found", fromID), nil
	}
	to, exists := l.accounts[toID]
	if !exists {
		return false, fmt.Sprintf("destination account %d not found", toID), nil
	}
	if from.Balance < amount {
		return false, fmt.Sprintf("insufficient balance, available: $%.2f", from.Balance), nil
	}

	now := time.Now()
	from.Balance -= amount
	to.Balance += amount

	l.nextTxID++
	l.transactions = append(l.transactions, domain.Transaction{
		ID: l.nextTxID, AccountID: fromID, Type: domain.TxDebit, Amount: amount, Timestamp: now,
	})
	l.nextTxID++
	l.transactions = append(l.transactions, domain.Transaction{
		ID: l.nextTxID, AccountID: toID, Type: domain.TxCredit, Amount: amount, Timestamp: now,
	})

	return true, fmt.Sprintf("successfully transferred $%.2f", amount), nil
}

func (l *Ledger) RecentTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var txs []domain.Transaction
	for _, tx := range l.transactions {
		if tx.AccountID == accountID {
			txs = append(txs, tx)
		}
	}

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})

	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (l *Ledger) TransactionSummary(ctx context.Context, accountID int64, windowDays int) (map[string]domain.TypeSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	threshold := time.Now().AddDate(0, 0, -windowDays)

	summary := make(map[string]domain.TypeSummary)
	for _, tx := range l.transactions {
		if tx.AccountID != accountID || tx.Timestamp.Before(threshold) {
			continue
		}
		s := summary[tx.Type]
		s.Total += tx.Amount
		s.Count++
		summary[tx.Type] = s
	}
	return summary, nil
}
