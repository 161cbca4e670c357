package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

// SessionStore keeps admin sessions opened by a correct PIN.
type SessionStore struct {
	db DBTX
}

func NewSessionStore(db DBTX) *SessionStore {
	return &SessionStore{db: db}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *SessionStore) Create(now time.Time, ttl time.Duration) (*model.AdminSession, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := &model.AdminSession{
		Token:     token,
		ExpiresAt: now.Add(ttl).UTC(),
		CreatedAt: now.UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO admin_sessions (token, expires_at, created_at) VALUES (?, ?, ?)`,
		sess.Token, sess.ExpiresAt, sess.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// Get returns the session if it exists and has not expired at now.
func (s *SessionStore) Get(token string, now time.Time) (*model.AdminSession, error) {
	var sess model.AdminSession
	err := s.db.QueryRow(
		`SELECT token, expires_at, created_at FROM admin_sessions WHERE token = ?`, token,
	).Scan(&sess.Token, &sess.ExpiresAt, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !now.Before(sess.ExpiresAt) {
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM admin_sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteAll() error {
	_, err := s.db.Exec(`DELETE FROM admin_sessions`)
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM admin_sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
