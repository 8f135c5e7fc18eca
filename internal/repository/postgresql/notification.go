package postgresql

import (
	"context"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

// CreateBatch implements notification.Repository. All rows are inserted in a
// single transaction so a partial fan-out never persists.
func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		query := `
			INSERT INTO notifications (id, recipient_id, type, title, message, is_read, created_at)
			VALUES (uuidv7(), $1, $2, $3, $4, FALSE, NOW())
			RETURNING id, created_at
		`

		for _, n := range notifications {
			err := q.QueryRow(ctx, query, n.RecipientID, n.Type, n.Title, n.Message).
				Scan(&n.ID, &n.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByRecipient implements notification.Repository.
func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*notification.Notification, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, recipient_id, type, title, message, is_read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message,
			&n.IsRead, &n.ReadAt, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}

// GetUnreadCount implements notification.Repository.
func (r *notificationRepositoryImpl) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`,
		recipientID,
	).Scan(&count)
	return count, err
}

// MarkAllAsRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND NOT is_read
	`, recipientID)
	return err
}
