package notification

import "context"

// Repository - interface for notifications table
type Repository interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*Notification, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAllAsRead(ctx context.Context, recipientID string) error
}
