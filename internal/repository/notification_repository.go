package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"openwonder/api/internal/models"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) error {
	const query = `
		INSERT INTO notifications (id, recipient_id, actor_id, event_type, context_ref, seen, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
	`
	_, err := r.pool.Exec(ctx, query, n.ID, n.RecipientID, n.ActorID, n.Type, n.ContextRef)
	return err
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	const query = `
		SELECT id, recipient_id, actor_id, event_type, context_ref, seen, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Type, &n.ContextRef, &n.Seen, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkAllSeen(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET seen = TRUE WHERE recipient_id = $1 AND NOT seen`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}

// PruneSeen deletes seen notifications older than the cutoff and returns how
// many rows went away.
func (r *NotificationRepository) PruneSeen(ctx context.Context, olderThan time.Duration) (int64, error) {
	const query = `DELETE FROM notifications WHERE seen AND created_at < NOW() - make_interval(secs => $1)`
	cmd, err := r.pool.Exec(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
