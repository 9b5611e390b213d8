package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"openwonder/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (id, user_id, token, platform, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.Platform,
	)
	return err
}

// GetByToken matches the bearer token verbatim. Tokens are compared
// case-sensitively and never expire on their own.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (models.Session, error) {
	const query = `
		SELECT id, user_id, token, platform, created_at
		FROM sessions
		WHERE token = $1
	`
	row := r.pool.QueryRow(ctx, query, token)
	var session models.Session
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.Platform,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	const query = `
		SELECT id, user_id, token, platform, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Token,
			&session.Platform,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`
	cmd, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) RevokeByID(ctx context.Context, userID, sessionID string) error {
	const query = `DELETE FROM sessions WHERE user_id = $1 AND id = $2`
	cmd, err := r.pool.Exec(ctx, query, userID, sessionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RevokeAllExcept drops every session of the user but the one holding the
// given token. Used on password change.
func (r *SessionRepository) RevokeAllExcept(ctx context.Context, userID, token string) error {
	const query = `DELETE FROM sessions WHERE user_id = $1 AND token <> $2`
	_, err := r.pool.Exec(ctx, query, userID, token)
	return err
}

func (r *SessionRepository) RevokeAll(ctx context.Context, userID string) error {
	const query = `DELETE FROM sessions WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
