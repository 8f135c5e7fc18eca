package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/jwt"
	notifservice "github.com/cmlabs-hris/leave-tracker-go/internal/service/notification"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	dispatcher *notifservice.Dispatcher
	jwtService jwt.Service
}

func NewNotificationHandler(dispatcher *notifservice.Dispatcher, jwtService jwt.Service) NotificationHandler {
	return &NotificationHandlerImpl{
		dispatcher: dispatcher,
		jwtService: jwtService,
	}
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)
	if employeeID == "" {
		response.HandleError(w, employee.ErrInvalidToken)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, unread, err := h.dispatcher.List(r.Context(), employeeID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkAllAsRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)
	if employeeID == "" {
		response.HandleError(w, employee.ErrInvalidToken)
		return
	}

	if err := h.dispatcher.MarkAllAsRead(r.Context(), employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

// Stream implements NotificationHandler. Authentication uses the short-lived
// SSE token passed as a query parameter, since EventSource cannot set headers.
func (h *NotificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Token is required")
		return
	}

	employeeID, err := h.jwtService.ValidateSSEToken(token)
	if err != nil {
		response.HandleError(w, employee.ErrInvalidToken)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cleanup := h.dispatcher.Subscribe(employeeID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, payload)
			flusher.Flush()
		}
	}
}
