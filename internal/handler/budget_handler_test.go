package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/coinsage/coinsage-backend/internal/testutil"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/coinsage/coinsage-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type budgetHandlerFixture struct {
	handler  *BudgetHandler
	store    *testutil.MockPreferenceStore
	notifier *testutil.MockNotifier
	userID   uuid.UUID
}

func newBudgetHandlerFixture(t *testing.T) *budgetHandlerFixture {
	t.Helper()
	store := testutil.NewMockPreferenceStore()
	notifier := testutil.NewMockNotifier()
	clock := util.FixedClock{Instant: handlerTestNow}

	alertService := service.NewAlertService(store, notifier)
	budgetService := service.NewBudgetService(store, store, alertService, clock)

	return &budgetHandlerFixture{
		handler:  NewBudgetHandler(budgetService, &websocket.NoOpPublisher{}),
		store:    store,
		notifier: notifier,
		userID:   uuid.New(),
	}
}

func (f *budgetHandlerFixture) request(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/v1/budget", nil)
	} else {
		req = httptest.NewRequest(method, "/api/v1/budget", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID)
	return c, rec
}

func TestGetBudget_ComputesProgress(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	f.store.Budgets[f.userID] = decimal.NewFromInt(100)
	f.store.Transactions[f.userID] = []domain.Transaction{
		{
			ID:       uuid.New(),
			Title:    "Groceries",
			Amount:   decimal.NewFromInt(40),
			Category: domain.CategoryFood,
			Date:     handlerTestNow.AddDate(0, 0, -2),
			Type:     domain.TransactionTypeExpense,
		},
	}

	c, rec := f.request(t, http.MethodGet, "")
	if err := f.handler.GetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "100.00" {
		t.Errorf("Expected amount '100.00', got %s", response.Amount)
	}
	if response.Spent != "40.00" {
		t.Errorf("Expected spent '40.00', got %s", response.Spent)
	}
	if response.Progress != "40.00" {
		t.Errorf("Expected progress '40.00', got %s", response.Progress)
	}
}

func TestGetBudget_ZeroBudget(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	c, rec := f.request(t, http.MethodGet, "")
	if err := f.handler.GetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "0.00" || response.Progress != "0.00" {
		t.Errorf("Expected zero amounts, got %+v", response)
	}
}

func TestSetBudget_Success(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	c, rec := f.request(t, http.MethodPut, `{"amount": "250.00"}`)
	if err := f.handler.SetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "250.00" {
		t.Errorf("Expected amount '250.00', got %s", response.Amount)
	}

	if !f.store.Budgets[f.userID].Equal(decimal.RequireFromString("250.00")) {
		t.Errorf("Expected the budget to be persisted, got %s", f.store.Budgets[f.userID])
	}
}

func TestSetBudget_RejectsNonPositive(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	for _, body := range []string{`{"amount": "0"}`, `{"amount": "-50"}`} {
		c, rec := f.request(t, http.MethodPut, body)
		if err := f.handler.SetBudget(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", body, rec.Code)
		}
	}
}

func TestSetBudget_InvalidDecimal(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	c, rec := f.request(t, http.MethodPut, `{"amount": "lots"}`)
	if err := f.handler.SetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestSetBudget_EvaluatesAlertsAgainstNewAmount(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	f.store.Transactions[f.userID] = []domain.Transaction{
		{
			ID:       uuid.New(),
			Title:    "Rent",
			Amount:   decimal.NewFromInt(90),
			Category: domain.CategoryBills,
			Date:     handlerTestNow.AddDate(0, 0, -2),
			Type:     domain.TransactionTypeExpense,
		},
	}

	c, rec := f.request(t, http.MethodPut, `{"amount": "100.00"}`)
	if err := f.handler.SetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	fired := f.notifier.Fired()
	if len(fired) != 2 {
		t.Fatalf("Expected 80 and 90 alerts, got %v", fired)
	}
	if fired[0].Threshold != 80 || fired[1].Threshold != 90 {
		t.Errorf("Expected ascending thresholds, got %v", fired)
	}
}

func TestGetSummary_BalanceAndTotals(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	f.store.Transactions[f.userID] = []domain.Transaction{
		{
			ID:       uuid.New(),
			Title:    "Salary",
			Amount:   decimal.NewFromInt(1000),
			Category: domain.CategoryIncome,
			Date:     handlerTestNow.AddDate(0, -2, 0),
			Type:     domain.TransactionTypeIncome,
		},
		{
			ID:       uuid.New(),
			Title:    "Rent",
			Amount:   decimal.NewFromInt(600),
			Category: domain.CategoryBills,
			Date:     handlerTestNow.AddDate(0, 0, -2),
			Type:     domain.TransactionTypeExpense,
		},
	}

	c, rec := f.request(t, http.MethodGet, "")
	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected a summary body, got %v", err)
	}
	if resp.Balance != "400.00" {
		t.Errorf("Expected balance 400.00, got %q", resp.Balance)
	}
	if resp.TotalIncome != "1000.00" {
		t.Errorf("Expected totalIncome 1000.00, got %q", resp.TotalIncome)
	}
	if resp.TotalExpenses != "600.00" {
		t.Errorf("Expected totalExpenses 600.00, got %q", resp.TotalExpenses)
	}
}

func TestGetSummary_Empty(t *testing.T) {
	f := newBudgetHandlerFixture(t)

	c, rec := f.request(t, http.MethodGet, "")
	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected a summary body, got %v", err)
	}
	if resp.Balance != "0.00" {
		t.Errorf("Expected balance 0.00, got %q", resp.Balance)
	}
}
