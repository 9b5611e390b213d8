package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"openwonder/api/internal/models"
)

var ErrFollowNotFound = errors.New("follow edge not found")

// FollowRepository owns the follows table and the denormalized
// followers/following counters on users. Any write that touches an accepted
// edge adjusts the counters inside the same transaction; the edge and its
// counters represent one logical fact.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Get(ctx context.Context, followerID, followingID string) (models.FollowEdge, error) {
	const query = `
		SELECT follower_id, following_id, active, created_at
		FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`
	row := r.pool.QueryRow(ctx, query, followerID, followingID)
	var edge models.FollowEdge
	if err := row.Scan(&edge.FollowerID, &edge.FollowingID, &edge.Active, &edge.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FollowEdge{}, ErrFollowNotFound
		}
		return models.FollowEdge{}, err
	}
	return edge, nil
}

// CreatePending inserts an inactive edge (a follow request). Idempotent: an
// existing edge, pending or accepted, is left untouched.
func (r *FollowRepository) CreatePending(ctx context.Context, followerID, followingID string) error {
	const query = `
		INSERT INTO follows (follower_id, following_id, active, created_at)
		VALUES ($1, $2, FALSE, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, followerID, followingID)
	return err
}

// CreateAccepted inserts an active edge and bumps both counters in one
// transaction. A pre-existing edge means nothing to do.
func (r *FollowRepository) CreateAccepted(ctx context.Context, followerID, followingID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO follows (follower_id, following_id, active, created_at)
			VALUES ($1, $2, TRUE, NOW())
			ON CONFLICT (follower_id, following_id) DO NOTHING
		`
		cmd, err := tx.Exec(ctx, insert, followerID, followingID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return nil
		}
		return adjustFollowCounters(ctx, tx, followerID, followingID, +1)
	})
}

// Accept activates a pending edge and bumps both counters in one transaction.
func (r *FollowRepository) Accept(ctx context.Context, followerID, followingID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const update = `
			UPDATE follows SET active = TRUE
			WHERE follower_id = $1 AND following_id = $2 AND NOT active
		`
		cmd, err := tx.Exec(ctx, update, followerID, followingID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrFollowNotFound
		}
		return adjustFollowCounters(ctx, tx, followerID, followingID, +1)
	})
}

// Delete removes the edge regardless of state. Counters are decremented only
// when the deleted edge was accepted; a declined request never counted.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const del = `
			DELETE FROM follows
			WHERE follower_id = $1 AND following_id = $2
			RETURNING active
		`
		var wasActive bool
		if err := tx.QueryRow(ctx, del, followerID, followingID).Scan(&wasActive); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrFollowNotFound
			}
			return err
		}
		if !wasActive {
			return nil
		}
		return adjustFollowCounters(ctx, tx, followerID, followingID, -1)
	})
}

func adjustFollowCounters(ctx context.Context, tx pgx.Tx, followerID, followingID string, delta int) error {
	const followers = `
		UPDATE users SET followers_count = GREATEST(followers_count + $2, 0), updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, followers, followingID, delta); err != nil {
		return err
	}
	const following = `
		UPDATE users SET following_count = GREATEST(following_count + $2, 0), updated_at = NOW()
		WHERE id = $1
	`
	_, err := tx.Exec(ctx, following, followerID, delta)
	return err
}

func (r *FollowRepository) ListPendingFor(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	const query = `
		SELECT follower_id, following_id, active, created_at
		FROM follows
		WHERE following_id = $1 AND NOT active
		ORDER BY created_at DESC
	`
	return r.listEdges(ctx, query, userID)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	const query = `
		SELECT follower_id, following_id, active, created_at
		FROM follows
		WHERE following_id = $1 AND active
		ORDER BY created_at DESC
	`
	return r.listEdges(ctx, query, userID)
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	const query = `
		SELECT follower_id, following_id, active, created_at
		FROM follows
		WHERE follower_id = $1 AND active
		ORDER BY created_at DESC
	`
	return r.listEdges(ctx, query, userID)
}

func (r *FollowRepository) listEdges(ctx context.Context, query string, args ...any) ([]models.FollowEdge, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []models.FollowEdge
	for rows.Next() {
		var edge models.FollowEdge
		if err := rows.Scan(&edge.FollowerID, &edge.FollowingID, &edge.Active, &edge.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// ReconcileCounters rewrites the denormalized counters from the follows table.
// Run periodically to repair drift left behind by the legacy platform's
// read-then-write counter updates.
func (r *FollowRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	const query = `
		UPDATE users u SET
			followers_count = f.followers,
			following_count = f.following
		FROM (
			SELECT u2.id,
				(SELECT COUNT(*) FROM follows WHERE following_id = u2.id AND active) AS followers,
				(SELECT COUNT(*) FROM follows WHERE follower_id = u2.id AND active) AS following
			FROM users u2
		) f
		WHERE u.id = f.id
		  AND (u.followers_count <> f.followers OR u.following_count <> f.following)
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
