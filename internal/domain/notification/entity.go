package notification

import "time"

type NotificationType string

const (
	TypeLeaveSubmitted     NotificationType = "leave_submitted"
	TypeLeavePendingReview NotificationType = "leave_pending_review"
	TypeLeaveStatusChanged NotificationType = "leave_status_changed"
)

type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
