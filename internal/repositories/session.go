package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/google/uuid"
)

// SessionRepository issues and resolves opaque bearer tokens.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create mints a token for userID. A zero ttl never expires.
func (r *SessionRepository) Create(userID string, ttl time.Duration) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		UserID:    userID,
		CreatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		session.ExpiresAt = &exp
	}

	query := `INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Exec(query, session.Token, userID, now, session.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Lookup resolves token to its session. Unknown, revoked, and expired tokens
// all return [shared.ErrUnauthorized].
func (r *SessionRepository) Lookup(token string) (*models.Session, error) {
	var (
		s         models.Session
		expiresAt sql.NullTime
		revokedAt sql.NullTime
	)

	query := `SELECT token, user_id, created_at, expires_at, revoked_at FROM sessions WHERE token = ?`
	err := r.db.QueryRow(query, token).Scan(&s.Token, &s.UserID, &s.CreatedAt, &expiresAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if expiresAt.Valid {
		s.ExpiresAt = &expiresAt.Time
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	if !s.Active(time.Now()) {
		return nil, shared.ErrUnauthorized
	}
	return &s, nil
}

// Revoke invalidates token.
func (r *SessionRepository) Revoke(token string) error {
	result, err := r.db.Exec(`UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`, time.Now(), token)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return expectOne(result, "session", token)
}

// ActiveUsers counts distinct users holding a live session.
func (r *SessionRepository) ActiveUsers() (int, error) {
	var n int
	query := `
		SELECT COUNT(DISTINCT user_id) FROM sessions
		WHERE revoked_at IS NULL AND (expires_at IS NULL OR expires_at > ?)
	`
	if err := r.db.QueryRow(query, time.Now()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return n, nil
}
