package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-tracker-go/internal/service/dashboard"
)

type DashboardHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type DashboardHandlerImpl struct {
	dashboardService *dashboard.Service
}

func NewDashboardHandler(dashboardService *dashboard.Service) DashboardHandler {
	return &DashboardHandlerImpl{dashboardService: dashboardService}
}

// Summary implements DashboardHandler.
func (h *DashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context(), queryYear(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
