package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"openwonder/api/internal/models"
)

var ErrBlockNotFound = errors.New("block not found")

type BlockRepository struct {
	pool *pgxpool.Pool
}

func NewBlockRepository(pool *pgxpool.Pool) *BlockRepository {
	return &BlockRepository{pool: pool}
}

// Create records the block and tears down any follow relationship between the
// pair, in both directions, inside one transaction. Accepted edges that get
// removed release their counters too.
func (r *BlockRepository) Create(ctx context.Context, blockerID, blockedID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO blocks (blocker_id, blocked_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (blocker_id, blocked_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, insert, blockerID, blockedID); err != nil {
			return err
		}

		const del = `
			DELETE FROM follows
			WHERE (follower_id = $1 AND following_id = $2)
			   OR (follower_id = $2 AND following_id = $1)
			RETURNING follower_id, following_id, active
		`
		rows, err := tx.Query(ctx, del, blockerID, blockedID)
		if err != nil {
			return err
		}
		type removed struct {
			follower, following string
			active              bool
		}
		var edges []removed
		for rows.Next() {
			var e removed
			if err := rows.Scan(&e.follower, &e.following, &e.active); err != nil {
				rows.Close()
				return err
			}
			edges = append(edges, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, e := range edges {
			if !e.active {
				continue
			}
			if err := adjustFollowCounters(ctx, tx, e.follower, e.following, -1); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID string) error {
	const query = `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	cmd, err := r.pool.Exec(ctx, query, blockerID, blockedID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (r *BlockRepository) ExistsEitherDirection(ctx context.Context, a, b string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, a, b).Scan(&exists)
	return exists, err
}

func (r *BlockRepository) ListByBlocker(ctx context.Context, blockerID string) ([]models.BlockEdge, error) {
	const query = `
		SELECT blocker_id, blocked_id, created_at
		FROM blocks
		WHERE blocker_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, blockerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.BlockEdge
	for rows.Next() {
		var block models.BlockEdge
		if err := rows.Scan(&block.BlockerID, &block.BlockedID, &block.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}
