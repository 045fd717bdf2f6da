package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Preference keys. Each user's data lives under a fixed set of keys in a
// single key-value table, mirroring a mobile preference store.
const (
	keyTransactions         = "transactions"
	keyMonthlyBudget        = "monthly_budget"
	keyNotificationsEnabled = "notifications_enabled"
	keyCurrency             = "currency"
)

const defaultCurrency = "USD"

// PreferenceRepository implements domain.TransactionStore, domain.BudgetStore
// and domain.SettingsStore over a per-user key-value table.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

var (
	_ domain.TransactionStore = (*PreferenceRepository)(nil)
	_ domain.BudgetStore      = (*PreferenceRepository)(nil)
	_ domain.SettingsStore    = (*PreferenceRepository)(nil)
)

func (r *PreferenceRepository) get(userID uuid.UUID, key string) ([]byte, bool, error) {
	var value []byte
	err := r.pool.QueryRow(context.Background(),
		`SELECT value FROM preferences WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *PreferenceRepository) set(userID uuid.UUID, key string, value []byte) error {
	_, err := r.pool.Exec(context.Background(),
		`INSERT INTO preferences (user_id, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		userID, key, value,
	)
	return err
}

// GetTransactions returns the stored transaction list. Missing or malformed
// data decodes to an empty list, never an error: the engine must always
// receive a valid collection.
func (r *PreferenceRepository) GetTransactions(userID uuid.UUID) ([]domain.Transaction, error) {
	value, ok, err := r.get(userID, keyTransactions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Transaction{}, nil
	}
	return DecodeTransactions(userID, value), nil
}

// DecodeTransactions parses a stored transaction blob, falling back to an
// empty list when the blob is corrupt.
func DecodeTransactions(userID uuid.UUID, value []byte) []domain.Transaction {
	var transactions []domain.Transaction
	if err := json.Unmarshal(value, &transactions); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Stored transactions are unparseable, returning empty list")
		return []domain.Transaction{}
	}
	if transactions == nil {
		return []domain.Transaction{}
	}
	return transactions
}

// SaveTransactions stores the full transaction list for the user.
func (r *PreferenceRepository) SaveTransactions(userID uuid.UUID, transactions []domain.Transaction) error {
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	value, err := json.Marshal(transactions)
	if err != nil {
		return err
	}
	return r.set(userID, keyTransactions, value)
}

// GetMonthlyBudget returns the stored budget, or zero when unset or corrupt.
func (r *PreferenceRepository) GetMonthlyBudget(userID uuid.UUID) (decimal.Decimal, error) {
	value, ok, err := r.get(userID, keyMonthlyBudget)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}

	var raw string
	if err := json.Unmarshal(value, &raw); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Stored budget is unparseable, treating as zero")
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Stored budget is not a valid amount, treating as zero")
		return decimal.Zero, nil
	}
	return amount, nil
}

// SetMonthlyBudget stores the budget as a decimal string to preserve
// precision.
func (r *PreferenceRepository) SetMonthlyBudget(userID uuid.UUID, amount decimal.Decimal) error {
	value, err := json.Marshal(amount.String())
	if err != nil {
		return err
	}
	return r.set(userID, keyMonthlyBudget, value)
}

// GetNotificationsEnabled returns the notifications toggle, defaulting to
// true when unset.
func (r *PreferenceRepository) GetNotificationsEnabled(userID uuid.UUID) (bool, error) {
	value, ok, err := r.get(userID, keyNotificationsEnabled)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}

	var enabled bool
	if err := json.Unmarshal(value, &enabled); err != nil {
		return true, nil
	}
	return enabled, nil
}

// SetNotificationsEnabled stores the notifications toggle.
func (r *PreferenceRepository) SetNotificationsEnabled(userID uuid.UUID, enabled bool) error {
	value, err := json.Marshal(enabled)
	if err != nil {
		return err
	}
	return r.set(userID, keyNotificationsEnabled, value)
}

// GetCurrency returns the display currency code, defaulting to USD.
func (r *PreferenceRepository) GetCurrency(userID uuid.UUID) (string, error) {
	value, ok, err := r.get(userID, keyCurrency)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultCurrency, nil
	}

	var currency string
	if err := json.Unmarshal(value, &currency); err != nil || currency == "" {
		return defaultCurrency, nil
	}
	return currency, nil
}

// SetCurrency stores the display currency code.
func (r *PreferenceRepository) SetCurrency(userID uuid.UUID, currency string) error {
	value, err := json.Marshal(currency)
	if err != nil {
		return err
	}
	return r.set(userID, keyCurrency, value)
}

// ClearUserData removes every stored preference for the user.
func (r *PreferenceRepository) ClearUserData(userID uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM preferences WHERE user_id = $1`,
		userID,
	)
	return err
}
