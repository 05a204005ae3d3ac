package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"bankagent/internal/domain"
	"bankagent/internal/usecase"
)

// LedgerHandler exposes direct, non-conversational ledger reads plus
// the demo setup action.
type LedgerHandler struct {
	store domain.LedgerStore
}

// NewLedgerHandler creates a LedgerHandler.
func NewLedgerHandler(store domain.LedgerStore) *LedgerHandler {
	return &LedgerHandler{store: store}
}

// Setup seeds the demo user and accounts.
// POST /api/setup
func (h *LedgerHandler) Setup(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	demo, err := usecase.SeedDemoData(ctx, h.store)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to seed demo data", err)
	}
	return CreatedResponse(c, demo)
}

// GetAccounts lists every account in the ledger.
// GET /api/accounts
func (h *LedgerHandler) GetAccounts(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	accounts, err := h.store.Accounts(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to list accounts", err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"accounts": accounts,
	})
}

// GetUserAccounts lists the accounts owned by one user.
// GET /api/users/:id/accounts
func (h *LedgerHandler) GetUserAccounts(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return BadRequestResponse(c, "Invalid user id")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	accounts, err := h.store.AccountsByUser(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to list user accounts", err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"user_id":  userID,
		"accounts": accounts,
	})
}

// GetBalance returns one account's balance.
// GET /api/accounts/:id/balance
func (h *LedgerHandler) GetBalance(c echo.Context) error {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	balance, err := h.store.Balance(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NotFoundResponse(c, err.Error())
		}
		return InternalServerErrorResponse(c, "Failed to get balance", err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"account_id": accountID,
		"balance":    balance,
	})
}

// GetTransactions returns an account's recent transactions,
// most recent first.
// GET /api/accounts/:id/transactions?limit=10
func (h *LedgerHandler) GetTransactions(c echo.Context) error {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	txs, err := h.store.RecentTransactions(ctx, accountID, limit)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to list transactions", err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"account_id":   accountID,
		"transactions": txs,
	})
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
