package service

import (
	"strings"
	"time"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	store domain.TransactionStore
	clock util.Clock
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(store domain.TransactionStore, clock util.Clock) *TransactionService {
	return &TransactionService{
		store: store,
		clock: clock,
	}
}

// TransactionInput holds the input for creating or replacing a transaction
type TransactionInput struct {
	Title    string
	Amount   decimal.Decimal
	Category domain.Category
	Date     *time.Time
	Type     domain.TransactionType
	Notes    *string
}

func (s *TransactionService) validate(input TransactionInput) (domain.Transaction, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Transaction{}, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTransactionTitleLength {
		return domain.Transaction{}, domain.ErrTitleTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if !input.Category.IsValid() {
		return domain.Transaction{}, domain.ErrInvalidCategory
	}

	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return domain.Transaction{}, domain.ErrInvalidType
	}

	date := s.clock.Now()
	if input.Date != nil {
		date = *input.Date
	}

	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			if len(trimmed) > domain.MaxTransactionNotesLength {
				return domain.Transaction{}, domain.ErrNotesTooLong
			}
			notes = &trimmed
		}
	}

	return domain.Transaction{
		Title:    title,
		Amount:   input.Amount,
		Category: input.Category,
		Date:     date,
		Type:     input.Type,
		Notes:    notes,
	}, nil
}

// CreateTransaction validates the input, assigns a fresh ID and appends the
// transaction to the user's list.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	tx, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	tx.ID = uuid.New()

	transactions, err := s.store.GetTransactions(userID)
	if err != nil {
		return nil, err
	}

	transactions = append(transactions, tx)
	if err := s.store.SaveTransactions(userID, transactions); err != nil {
		return nil, err
	}

	return &tx, nil
}

// UpdateTransaction replaces the transaction with the given ID. The edit is a
// full replacement; only the ID survives from the old record.
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	tx, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	tx.ID = id

	transactions, err := s.store.GetTransactions(userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range transactions {
		if transactions[i].ID == id {
			transactions[i] = tx
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrTransactionNotFound
	}

	if err := s.store.SaveTransactions(userID, transactions); err != nil {
		return nil, err
	}

	return &tx, nil
}

// DeleteTransaction removes the transaction and returns the removed record so
// callers can offer an undo.
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	transactions, err := s.store.GetTransactions(userID)
	if err != nil {
		return nil, err
	}

	for i := range transactions {
		if transactions[i].ID == id {
			deleted := transactions[i]
			transactions = append(transactions[:i], transactions[i+1:]...)
			if err := s.store.SaveTransactions(userID, transactions); err != nil {
				return nil, err
			}
			return &deleted, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

// RestoreTransaction reverses a delete by re-inserting the transaction with
// its original ID.
func (s *TransactionService) RestoreTransaction(userID uuid.UUID, tx domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}
	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	transactions, err := s.store.GetTransactions(userID)
	if err != nil {
		return nil, err
	}

	for i := range transactions {
		if transactions[i].ID == tx.ID {
			return nil, domain.ErrAlreadyExists
		}
	}

	transactions = append(transactions, tx)
	if err := s.store.SaveTransactions(userID, transactions); err != nil {
		return nil, err
	}

	return &tx, nil
}

// GetTransactions returns the user's transactions sorted by date descending.
func (s *TransactionService) GetTransactions(userID uuid.UUID) ([]domain.Transaction, error) {
	transactions, err := s.store.GetTransactions(userID)
	if err != nil {
		return nil, err
	}
	domain.SortByDateDesc(transactions)
	return transactions, nil
}
