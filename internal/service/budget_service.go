package service

import (
	"time"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService computes monthly budget progress and drives threshold alerts.
type BudgetService struct {
	transactions domain.TransactionStore
	budgets      domain.BudgetStore
	alerts       *AlertService
	clock        util.Clock
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(transactions domain.TransactionStore, budgets domain.BudgetStore, alerts *AlertService, clock util.Clock) *BudgetService {
	return &BudgetService{
		transactions: transactions,
		budgets:      budgets,
		alerts:       alerts,
		clock:        clock,
	}
}

// BudgetStatus holds the budget amount and current-month progress against it.
type BudgetStatus struct {
	Amount   decimal.Decimal
	Spent    decimal.Decimal
	Progress decimal.Decimal
}

// MonthToDateExpense sums expense amounts dated in the same calendar month as
// now. Income and other-month transactions are ignored; an empty or
// all-income list yields zero.
func MonthToDateExpense(transactions []domain.Transaction, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		if !util.SameCalendarMonth(now, tx.Date) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// AccountSummary holds the all-time balance and the income and expense
// totals behind it.
type AccountSummary struct {
	Balance       decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
}

// Summarize totals income and expenses over the whole transaction list.
// Balance is income minus expenses and may be negative.
func Summarize(transactions []domain.Transaction) AccountSummary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return AccountSummary{
		Balance:       income.Sub(expenses),
		TotalIncome:   income,
		TotalExpenses: expenses,
	}
}

// GetSummary loads the user's transactions and summarizes them.
func (s *BudgetService) GetSummary(userID uuid.UUID) (*AccountSummary, error) {
	transactions, err := s.transactions.GetTransactions(userID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(transactions)
	return &summary, nil
}

// GetStatus returns the stored budget with recomputed month-to-date progress.
// Pure over (budget, transactions, now): repeated calls with unchanged inputs
// return identical results.
func (s *BudgetService) GetStatus(userID uuid.UUID) (*BudgetStatus, error) {
	budget, err := s.budgets.GetMonthlyBudget(userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactions.GetTransactions(userID)
	if err != nil {
		return nil, err
	}

	spent := MonthToDateExpense(transactions, s.clock.Now())
	return &BudgetStatus{
		Amount:   budget,
		Spent:    spent,
		Progress: domain.ProgressPercent(spent, budget),
	}, nil
}

// SetBudget stores a new monthly budget amount. The amount must be strictly
// positive. Updating the budget starts a new alert epoch, then evaluates the
// fresh progress so newly applicable thresholds fire immediately.
func (s *BudgetService) SetBudget(userID uuid.UUID, amount decimal.Decimal) (*BudgetStatus, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if err := s.budgets.SetMonthlyBudget(userID, amount); err != nil {
		return nil, err
	}

	s.alerts.Reset(userID)
	return s.Recalculate(userID)
}

// Recalculate recomputes progress and runs threshold evaluation. Callers must
// invoke it after any transaction mutation to keep alerts consistent.
func (s *BudgetService) Recalculate(userID uuid.UUID) (*BudgetStatus, error) {
	status, err := s.GetStatus(userID)
	if err != nil {
		return nil, err
	}

	// A zero budget means no active budget: progress is zero and no
	// threshold can ever fire.
	if status.Amount.GreaterThan(decimal.Zero) {
		if err := s.alerts.Evaluate(userID, status.Progress); err != nil {
			return nil, err
		}
	}

	return status, nil
}
