package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"bankagent/internal/adapter/rulebased"
	"bankagent/internal/repository/memory"
	"bankagent/internal/usecase"
	"bankagent/pkg/metrics"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	store := memory.NewLedger()
	if _, err := usecase.SeedDemoData(context.Background(), store); err != nil {
		t.Fatalf("seed demo data: %v", err)
	}

	agent := usecase.NewAgent(
		rulebased.NewClassifier(),
		rulebased.NewPlanner(),
		usecase.NewExecutor(usecase.NewOperations(store)),
		metrics.NewCollector(),
	)

	e := echo.New()
	SetupRoutes(e, &RouterConfig{
		QueryHandler:  NewQueryHandler(agent),
		LedgerHandler: NewLedgerHandler(store),
	})
	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestPostQuery(t *testing.T) {
	e := newTestRouter(t)

	rec, resp := doRequest(t, e, http.MethodPost, "/api/query", `{"text": "balance of account 1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	data, _ := resp.Data.(map[string]interface{})
	reply, _ := data["response"].(string)
	if !strings.Contains(reply, "$5000.00") {
		t.Errorf("reply = %q, want the account balance", reply)
	}
}

func TestPostQueryEmptyText(t *testing.T) {
	e := newTestRouter(t)

	rec, resp := doRequest(t, e, http.MethodPost, "/api/query", `{"text": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Status != "error" {
		t.Errorf("status field = %q, want error", resp.Status)
	}
}

func TestGetBalanceEndpoint(t *testing.T) {
	e := newTestRouter(t)

	rec, resp := doRequest(t, e, http.MethodGet, "/api/accounts/2/balance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data, _ := resp.Data.(map[string]interface{})
	if balance, _ := data["balance"].(float64); balance != 2000.00 {
		t.Errorf("balance = %v, want 2000", data["balance"])
	}

	rec, _ = doRequest(t, e, http.MethodGet, "/api/accounts/99/balance", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing account status = %d, want 404", rec.Code)
	}
}

func TestSetupEndpoint(t *testing.T) {
	e := newTestRouter(t)

	rec, _ := doRequest(t, e, http.MethodPost, "/api/setup", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	rec, resp := doRequest(t, e, http.MethodGet, "/api/accounts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("accounts status = %d", rec.Code)
	}
	data, _ := resp.Data.(map[string]interface{})
	accounts, _ := data["accounts"].([]interface{})
	// Seeding is idempotent: the router's seed and the endpoint's seed
	// land on the same two accounts.
	if len(accounts) != 2 {
		t.Errorf("accounts = %d, want 2", len(accounts))
	}
}

func TestGetUserAccounts(t *testing.T) {
	e := newTestRouter(t)

	rec, resp := doRequest(t, e, http.MethodGet, "/api/users/1/accounts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data, _ := resp.Data.(map[string]interface{})
	accounts, _ := data["accounts"].([]interface{})
	if len(accounts) != 2 {
		t.Errorf("accounts = %d, want 2", len(accounts))
	}
}
