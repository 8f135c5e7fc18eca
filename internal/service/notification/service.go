package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/sse"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DaysCalculator resolves the chargeable working days of a request, used to
// enrich notification bodies.
type DaysCalculator interface {
	DaysByYear(ctx context.Context, start, end time.Time, halfDay bool) (map[int]decimal.Decimal, error)
}

// Config holds dispatcher tuning knobs
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// Dispatcher fans leave lifecycle events out to in-app notifications (batched
// through background workers, pushed over SSE) and email. Every delivery is
// best-effort: failures are logged and never propagated to the caller, so a
// lost notification cannot undo a committed state transition.
type Dispatcher struct {
	repo      notification.Repository
	employees employee.EmployeeRepository
	hub       *sse.Hub
	mailer    email.EmailService
	calc      DaysCalculator
	config    Config

	queue  chan *notification.Notification
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewDispatcher creates a dispatcher and starts its background workers.
func NewDispatcher(
	repo notification.Repository,
	employees employee.EmployeeRepository,
	hub *sse.Hub,
	mailer email.EmailService,
	calc DaysCalculator,
	cfg Config,
) *Dispatcher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	d := &Dispatcher{
		repo:      repo,
		employees: employees,
		hub:       hub,
		mailer:    mailer,
		calc:      calc,
		config:    cfg,
		queue:     make(chan *notification.Notification, cfg.QueueSize),
		stopCh:    make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	slog.Info("Notification dispatcher started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return d
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	batch := make([]*notification.Notification, 0, d.config.BatchSize)
	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("Failed to insert notification batch", "worker", id, "count", len(batch), "error", err)
		} else {
			for _, n := range batch {
				d.hub.Publish(n.RecipientID, sse.Event{
					EmployeeID: n.RecipientID,
					Event:      "notification",
					Data:       toResponse(n),
				})
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case n := <-d.queue:
			batch = append(batch, n)
			if len(batch) >= d.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-d.stopCh:
			flush()
			return
		}
	}
}

// enqueue hands a notification to the workers, falling back to a direct
// insert when the queue is full.
func (d *Dispatcher) enqueue(ctx context.Context, n *notification.Notification) {
	select {
	case d.queue <- n:
	default:
		if err := d.repo.CreateBatch(ctx, []*notification.Notification{n}); err != nil {
			slog.Error("Failed to insert notification", "recipient_id", n.RecipientID, "error", err)
			return
		}
		d.hub.Publish(n.RecipientID, sse.Event{
			EmployeeID: n.RecipientID,
			Event:      "notification",
			Data:       toResponse(n),
		})
	}
}

// LeaveSubmitted notifies the requester and their manager of a new Pending
// request.
func (d *Dispatcher) LeaveSubmitted(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType) {
	emp, err := d.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		slog.Error("Failed to resolve requester for notification", "request_id", req.ID, "error", err)
		return
	}

	days := d.daysLabel(ctx, req)
	period := fmt.Sprintf("%s to %s", req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout))

	d.enqueue(ctx, &notification.Notification{
		RecipientID: emp.ID,
		Type:        notification.TypeLeaveSubmitted,
		Title:       "Leave request submitted",
		Message:     fmt.Sprintf("Your %s request for %s (%s days) is awaiting review.", leaveType.Name, period, days),
	})

	var manager *employee.Employee
	if emp.ManagerID != nil {
		m, err := d.employees.GetByID(ctx, *emp.ManagerID)
		if err != nil {
			slog.Error("Failed to resolve manager for notification", "request_id", req.ID, "error", err)
		} else {
			manager = &m
			d.enqueue(ctx, &notification.Notification{
				RecipientID: m.ID,
				Type:        notification.TypeLeavePendingReview,
				Title:       "Leave request pending review",
				Message:     fmt.Sprintf("%s requested %s for %s (%s days).", emp.FullName, leaveType.Name, period, days),
			})
		}
	}

	go func() {
		if err := d.mailer.SendLeaveSubmitted(emp.Email, emp.FullName, leaveType.Name,
			req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout), days); err != nil {
			slog.Error("Failed to email requester", "request_id", req.ID, "error", err)
		}
		if manager != nil {
			if err := d.mailer.SendLeavePendingReview(manager.Email, manager.FullName, emp.FullName,
				leaveType.Name, req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout), days); err != nil {
				slog.Error("Failed to email manager", "request_id", req.ID, "error", err)
			}
		}
	}()
}

// LeaveStatusChanged notifies the requester of a decision. Cancellations are
// surfaced to the manager instead, since the requester made them.
func (d *Dispatcher) LeaveStatusChanged(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType) {
	emp, err := d.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		slog.Error("Failed to resolve requester for notification", "request_id", req.ID, "error", err)
		return
	}

	period := fmt.Sprintf("%s to %s", req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout))

	if req.Status == leave.StatusCancelled {
		if emp.ManagerID == nil {
			return
		}
		m, err := d.employees.GetByID(ctx, *emp.ManagerID)
		if err != nil {
			slog.Error("Failed to resolve manager for notification", "request_id", req.ID, "error", err)
			return
		}
		d.enqueue(ctx, &notification.Notification{
			RecipientID: m.ID,
			Type:        notification.TypeLeaveStatusChanged,
			Title:       "Leave request cancelled",
			Message:     fmt.Sprintf("%s cancelled their %s request for %s.", emp.FullName, leaveType.Name, period),
		})
		return
	}

	status := statusLabel(req.Status)
	message := fmt.Sprintf("Your %s request for %s was %s.", leaveType.Name, period, status)
	if req.ApproveComment != "" {
		message += fmt.Sprintf(" Comment: %s", req.ApproveComment)
	}

	d.enqueue(ctx, &notification.Notification{
		RecipientID: emp.ID,
		Type:        notification.TypeLeaveStatusChanged,
		Title:       fmt.Sprintf("Leave request %s", status),
		Message:     message,
	})

	go func() {
		if err := d.mailer.SendLeaveStatusChanged(emp.Email, emp.FullName, leaveType.Name,
			req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout),
			status, req.ApproveComment); err != nil {
			slog.Error("Failed to email requester", "request_id", req.ID, "error", err)
		}
	}()
}

// List retrieves the most recent notifications for an employee.
func (d *Dispatcher) List(ctx context.Context, employeeID string, limit int) ([]notification.NotificationResponse, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, err := d.repo.ListByRecipient(ctx, employeeID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := d.repo.GetUnreadCount(ctx, employeeID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}
	return responses, unread, nil
}

// MarkAllAsRead marks every notification of an employee as read.
func (d *Dispatcher) MarkAllAsRead(ctx context.Context, employeeID string) error {
	return d.repo.MarkAllAsRead(ctx, employeeID)
}

// Subscribe opens an SSE subscription for an employee.
func (d *Dispatcher) Subscribe(employeeID string) (chan sse.Event, func()) {
	return d.hub.Subscribe(employeeID)
}

// Stop drains the queue and stops the workers.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
	slog.Info("Notification dispatcher stopped")
}

func (d *Dispatcher) daysLabel(ctx context.Context, req leave.LeaveRequest) string {
	byYear, err := d.calc.DaysByYear(ctx, req.StartDate, req.EndDate, req.HalfDay)
	if err != nil {
		slog.Error("Failed to compute chargeable days for notification", "request_id", req.ID, "error", err)
		return "?"
	}

	total := decimal.Zero
	for _, days := range byYear {
		total = total.Add(days)
	}
	return total.String()
}

func statusLabel(status leave.LeaveRequestStatus) string {
	switch status {
	case leave.StatusApproved:
		return "Approved"
	case leave.StatusRejected:
		return "Rejected"
	case leave.StatusCancelled:
		return "Cancelled"
	default:
		return string(status)
	}
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
