package postgres

import (
	"context"
	"errors"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository implements domain.SessionRepository using PostgreSQL
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session
func (r *SessionRepository) Create(session *domain.Session) error {
	_, err := r.pool.Exec(context.Background(),
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	return err
}

// GetByToken retrieves a session by its token
func (r *SessionRepository) GetByToken(token string) (*domain.Session, error) {
	session := &domain.Session{}
	err := r.pool.QueryRow(context.Background(),
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// Delete removes a session by token
func (r *SessionRepository) Delete(token string) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteForUser removes all sessions belonging to a user
func (r *SessionRepository) DeleteForUser(userID uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}
