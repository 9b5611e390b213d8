package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"openwonder/api/internal/models"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

const postColumns = `
	id, owner_id, body, privacy, group_id, comments_count, reactions_count, created_at, updated_at
`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	if err := row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.Body,
		&post.Privacy,
		&post.GroupID,
		&post.CommentsCount,
		&post.ReactionsCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post models.Post) error {
	const query = `
		INSERT INTO posts (
			id, owner_id, body, privacy, group_id, comments_count, reactions_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, 0, 0, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.OwnerID,
		post.Body,
		post.Privacy,
		post.GroupID,
	)
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (models.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *PostRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// CreateComment inserts the comment and bumps the post counter in one
// transaction.
func (r *PostRepository) CreateComment(ctx context.Context, comment models.Comment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO comments (id, post_id, owner_id, body, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`
		if _, err := tx.Exec(ctx, insert, comment.ID, comment.PostID, comment.OwnerID, comment.Body); err != nil {
			return err
		}
		const bump = `UPDATE posts SET comments_count = comments_count + 1, updated_at = NOW() WHERE id = $1`
		_, err := tx.Exec(ctx, bump, comment.PostID)
		return err
	})
}

func (r *PostRepository) GetComment(ctx context.Context, id string) (models.Comment, error) {
	const query = `
		SELECT id, post_id, owner_id, body, created_at
		FROM comments
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var comment models.Comment
	if err := row.Scan(&comment.ID, &comment.PostID, &comment.OwnerID, &comment.Body, &comment.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrCommentNotFound
		}
		return models.Comment{}, err
	}
	return comment, nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID string, limit int) ([]models.Comment, error) {
	const query = `
		SELECT id, post_id, owner_id, body, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, postID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.OwnerID, &comment.Body, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *PostRepository) DeleteComment(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const del = `DELETE FROM comments WHERE id = $1 RETURNING post_id`
		var postID string
		if err := tx.QueryRow(ctx, del, id).Scan(&postID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCommentNotFound
			}
			return err
		}
		const drop = `
			UPDATE posts SET comments_count = GREATEST(comments_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`
		_, err := tx.Exec(ctx, drop, postID)
		return err
	})
}

// ToggleReaction flips the actor's like on the post. Returns true when the
// reaction now exists. Insert/delete and the counter move together.
func (r *PostRepository) ToggleReaction(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO reactions (post_id, user_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (post_id, user_id) DO NOTHING
		`
		cmd, err := tx.Exec(ctx, insert, postID, userID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() > 0 {
			liked = true
			const bump = `UPDATE posts SET reactions_count = reactions_count + 1, updated_at = NOW() WHERE id = $1`
			_, err = tx.Exec(ctx, bump, postID)
			return err
		}

		const del = `DELETE FROM reactions WHERE post_id = $1 AND user_id = $2`
		if _, err := tx.Exec(ctx, del, postID, userID); err != nil {
			return err
		}
		const drop = `
			UPDATE posts SET reactions_count = GREATEST(reactions_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, drop, postID)
		return err
	})
	return liked, err
}
