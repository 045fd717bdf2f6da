package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single logged income or expense entry. Amount is always
// positive; the sign of its effect on the balance comes from Type.
type Transaction struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category"`
	Date     time.Time       `json:"date"`
	Type     TransactionType `json:"type"`
	Notes    *string         `json:"notes,omitempty"`
}

const (
	MaxTransactionTitleLength = 255
	MaxTransactionNotesLength = 1000
)

// SortByDateDesc orders transactions newest first, the default listing order.
func SortByDateDesc(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
}

// TransactionStore persists the full per-user transaction list as one blob.
// Implementations must return an empty list (not an error) for missing or
// unparseable stored data.
type TransactionStore interface {
	GetTransactions(userID uuid.UUID) ([]Transaction, error)
	SaveTransactions(userID uuid.UUID, transactions []Transaction) error
}

// BudgetStore persists the single monthly budget amount per user.
// A user with no stored budget reads as zero.
type BudgetStore interface {
	GetMonthlyBudget(userID uuid.UUID) (decimal.Decimal, error)
	SetMonthlyBudget(userID uuid.UUID, amount decimal.Decimal) error
}

// SettingsStore persists per-user preferences outside the transaction list.
type SettingsStore interface {
	GetNotificationsEnabled(userID uuid.UUID) (bool, error)
	SetNotificationsEnabled(userID uuid.UUID, enabled bool) error
	GetCurrency(userID uuid.UUID) (string, error)
	SetCurrency(userID uuid.UUID, currency string) error
	ClearUserData(userID uuid.UUID) error
}

// Notifier delivers a budget threshold alert to the user. Fire-and-forget;
// callers do not await confirmation.
type Notifier interface {
	FireAlert(userID uuid.UUID, threshold int, currentPercent int)
}
