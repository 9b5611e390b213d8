package policy

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RelationshipOracle answers the relationship facts visibility decisions are
// built from. Every query is a pure read.
type RelationshipOracle interface {
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	AreMutualFollowers(ctx context.Context, a, b string) (bool, error)
	IsBlockedEitherDirection(ctx context.Context, a, b string) (bool, error)
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
	IsOnCustomList(ctx context.Context, ownerID, memberID string) (bool, error)
}

// PGOracle answers relationship queries with EXISTS probes against the
// follows/blocks tables.
//
// Group membership depends on the variant: the legacy platform never kept a
// membership table in a usable state and instead treated "has posted in the
// group" as membership. Strict mode consults group_members.
type PGOracle struct {
	pool    *pgxpool.Pool
	variant Variant
}

func NewPGOracle(pool *pgxpool.Pool, variant Variant) *PGOracle {
	return &PGOracle{pool: pool, variant: variant}
}

func (o *PGOracle) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND following_id = $2 AND active
		)
	`
	var exists bool
	err := o.pool.QueryRow(ctx, query, actorID, targetID).Scan(&exists)
	return exists, err
}

func (o *PGOracle) AreMutualFollowers(ctx context.Context, a, b string) (bool, error) {
	ab, err := o.IsFollowing(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return o.IsFollowing(ctx, b, a)
}

func (o *PGOracle) IsBlockedEitherDirection(ctx context.Context, a, b string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	err := o.pool.QueryRow(ctx, query, a, b).Scan(&exists)
	return exists, err
}

func (o *PGOracle) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM posts
			WHERE group_id = $1 AND owner_id = $2
		)
	`
	if o.variant == VariantStrict {
		query = `
			SELECT EXISTS (
				SELECT 1 FROM group_members
				WHERE group_id = $1 AND user_id = $2
			)
		`
	}
	var exists bool
	err := o.pool.QueryRow(ctx, query, groupID, userID).Scan(&exists)
	return exists, err
}

func (o *PGOracle) IsOnCustomList(ctx context.Context, ownerID, memberID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM custom_list_members
			WHERE list_owner_id = $1 AND member_id = $2
		)
	`
	var exists bool
	err := o.pool.QueryRow(ctx, query, ownerID, memberID).Scan(&exists)
	return exists, err
}
