package service

import (
	"strings"
	"time"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a session token stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// AuthService handles local credential registration, login and sessions.
// Passwords are stored as bcrypt hashes and only ever compared, never read.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	clock      util.Clock
	bcryptCost int
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, clock util.Clock, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		clock:      clock,
		bcryptCost: bcryptCost,
		sessionTTL: DefaultSessionTTL,
	}
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > domain.MaxEmailLength || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(&domain.User{
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login compares the password against the stored hash and opens a session.
// Unknown email and wrong password return the same error.
func (s *AuthService) Login(email, password string) (*domain.Session, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return session, user, nil
}

// Logout invalidates the session token.
func (s *AuthService) Logout(token string) error {
	return s.sessions.Delete(token)
}

// ValidateToken resolves a session token to its user ID. Expired sessions are
// removed and rejected.
func (s *AuthService) ValidateToken(token string) (uuid.UUID, error) {
	session, err := s.sessions.GetByToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrSessionNotFound
	}

	if s.clock.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(token)
		return uuid.Nil, domain.ErrSessionExpired
	}

	return session.UserID, nil
}

// GetUser returns the user for the given ID.
func (s *AuthService) GetUser(id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(id)
}
