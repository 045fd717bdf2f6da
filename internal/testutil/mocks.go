package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/repository/archive"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockPreferenceStore is an in-memory implementation of
// domain.TransactionStore, domain.BudgetStore and domain.SettingsStore.
type MockPreferenceStore struct {
	mu            sync.Mutex
	Transactions  map[uuid.UUID][]domain.Transaction
	Budgets       map[uuid.UUID]decimal.Decimal
	Notifications map[uuid.UUID]bool
	Currencies    map[uuid.UUID]string

	GetTransactionsErr error
	SaveErr            error
}

// NewMockPreferenceStore creates a new MockPreferenceStore
func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{
		Transactions:  make(map[uuid.UUID][]domain.Transaction),
		Budgets:       make(map[uuid.UUID]decimal.Decimal),
		Notifications: make(map[uuid.UUID]bool),
		Currencies:    make(map[uuid.UUID]string),
	}
}

var (
	_ domain.TransactionStore = (*MockPreferenceStore)(nil)
	_ domain.BudgetStore      = (*MockPreferenceStore)(nil)
	_ domain.SettingsStore    = (*MockPreferenceStore)(nil)
)

// GetTransactions returns a copy of the stored list, empty when unset
func (m *MockPreferenceStore) GetTransactions(userID uuid.UUID) ([]domain.Transaction, error) {
	if m.GetTransactionsErr != nil {
		return nil, m.GetTransactionsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	transactions := make([]domain.Transaction, len(m.Transactions[userID]))
	copy(transactions, m.Transactions[userID])
	return transactions, nil
}

// SaveTransactions stores the list
func (m *MockPreferenceStore) SaveTransactions(userID uuid.UUID, transactions []domain.Transaction) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]domain.Transaction, len(transactions))
	copy(stored, transactions)
	m.Transactions[userID] = stored
	return nil
}

// GetMonthlyBudget returns the stored budget, zero when unset
func (m *MockPreferenceStore) GetMonthlyBudget(userID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if budget, ok := m.Budgets[userID]; ok {
		return budget, nil
	}
	return decimal.Zero, nil
}

// SetMonthlyBudget stores the budget
func (m *MockPreferenceStore) SetMonthlyBudget(userID uuid.UUID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Budgets[userID] = amount
	return nil
}

// GetNotificationsEnabled defaults to true when unset
func (m *MockPreferenceStore) GetNotificationsEnabled(userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enabled, ok := m.Notifications[userID]; ok {
		return enabled, nil
	}
	return true, nil
}

// SetNotificationsEnabled stores the toggle
func (m *MockPreferenceStore) SetNotificationsEnabled(userID uuid.UUID, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications[userID] = enabled
	return nil
}

// GetCurrency defaults to USD when unset
func (m *MockPreferenceStore) GetCurrency(userID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if currency, ok := m.Currencies[userID]; ok {
		return currency, nil
	}
	return "USD", nil
}

// SetCurrency stores the currency code
func (m *MockPreferenceStore) SetCurrency(userID uuid.UUID, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Currencies[userID] = currency
	return nil
}

// ClearUserData removes everything stored for the user
func (m *MockPreferenceStore) ClearUserData(userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Transactions, userID)
	delete(m.Budgets, userID)
	delete(m.Notifications, userID)
	delete(m.Currencies, userID)
	return nil
}

// FiredAlert records one alert delivered to the MockNotifier
type FiredAlert struct {
	UserID         uuid.UUID
	Threshold      int
	CurrentPercent int
}

// MockNotifier is a mock implementation of domain.Notifier that records every
// fired alert in order.
type MockNotifier struct {
	mu     sync.Mutex
	Alerts []FiredAlert
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// FireAlert records the alert
func (m *MockNotifier) FireAlert(userID uuid.UUID, threshold int, currentPercent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Alerts = append(m.Alerts, FiredAlert{
		UserID:         userID,
		Threshold:      threshold,
		CurrentPercent: currentPercent,
	})
}

// Fired returns the recorded alerts in firing order
func (m *MockNotifier) Fired() []FiredAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alerts := make([]FiredAlert, len(m.Alerts))
	copy(alerts, m.Alerts)
	return alerts
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByEmail map[string]*domain.User
	ByID    map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByEmail: make(map[string]*domain.User),
		ByID:    make(map[uuid.UUID]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()
	m.ByEmail[user.Email] = user
	m.ByID[user.ID] = user
	return user, nil
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Delete removes a user
func (m *MockUserRepository) Delete(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(m.ByEmail, user.Email)
	delete(m.ByID, id)
	return nil
}

// MockSessionRepository is a mock implementation of domain.SessionRepository
type MockSessionRepository struct {
	Sessions map[string]*domain.Session
}

// NewMockSessionRepository creates a new MockSessionRepository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Sessions: make(map[string]*domain.Session),
	}
}

// Create stores a new session
func (m *MockSessionRepository) Create(session *domain.Session) error {
	m.Sessions[session.Token] = session
	return nil
}

// GetByToken retrieves a session by its token
func (m *MockSessionRepository) GetByToken(token string) (*domain.Session, error) {
	if session, ok := m.Sessions[token]; ok {
		return session, nil
	}
	return nil, domain.ErrSessionNotFound
}

// Delete removes a session by token
func (m *MockSessionRepository) Delete(token string) error {
	delete(m.Sessions, token)
	return nil
}

// DeleteForUser removes all sessions belonging to a user
func (m *MockSessionRepository) DeleteForUser(userID uuid.UUID) error {
	for token, session := range m.Sessions {
		if session.UserID == userID {
			delete(m.Sessions, token)
		}
	}
	return nil
}

// MockArchiveRepository is an in-memory implementation of archive.Repository
type MockArchiveRepository struct {
	mu      sync.Mutex
	Objects map[string]map[string][]byte // userID -> name -> data
	order   []string

	WriteErr error
	ReadErr  error
}

// NewMockArchiveRepository creates a new MockArchiveRepository
func NewMockArchiveRepository() *MockArchiveRepository {
	return &MockArchiveRepository{
		Objects: make(map[string]map[string][]byte),
	}
}

var _ archive.Repository = (*MockArchiveRepository)(nil)

// Write stores a backup blob
func (m *MockArchiveRepository) Write(ctx context.Context, userID string, name string, data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects[userID] == nil {
		m.Objects[userID] = make(map[string][]byte)
	}
	m.Objects[userID][name] = data
	m.order = append(m.order, name)
	return nil
}

// Read returns a stored backup blob
func (m *MockArchiveRepository) Read(ctx context.Context, userID string, name string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.Objects[userID][name]; ok {
		return data, nil
	}
	return nil, domain.ErrBackupNotFound
}

// List returns the user's backups sorted by name descending, which matches
// newest-first for the timestamped naming scheme
func (m *MockArchiveRepository) List(ctx context.Context, userID string) ([]archive.BackupInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	backups := make([]archive.BackupInfo, 0, len(m.Objects[userID]))
	for name, data := range m.Objects[userID] {
		backups = append(backups, archive.BackupInfo{
			Name: name,
			Size: int64(len(data)),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}
