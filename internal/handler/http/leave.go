package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/response"
	leaveservice "github.com/cmlabs-hris/leave-tracker-go/internal/service/leave"
	"github.com/go-chi/chi/v5"
)

const maxAttachmentSize = 10 << 20 // 10 MB

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	ProvisionBalances(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	types    leave.LeaveTypeRepository
	balances *leaveservice.BalanceService
	requests *leaveservice.RequestService
}

func NewLeaveHandler(
	types leave.LeaveTypeRepository,
	balances *leaveservice.BalanceService,
	requests *leaveservice.RequestService,
) LeaveHandler {
	return &LeaveHandlerImpl{
		types:    types,
		balances: balances,
		requests: requests,
	}
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.types.Create(r.Context(), leave.LeaveType{
		Code:              req.Code,
		Name:              req.Name,
		Description:       req.Description,
		DefaultAllocation: req.DefaultAllocation,
		AllowHalfDay:      req.AllowHalfDay,
		RequireAttachment: req.RequireAttachment,
		IsPaid:            req.IsPaid,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", created)
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	leaveTypes, err := l.types.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveTypes)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)
	if employeeID == "" {
		response.HandleError(w, employee.ErrInvalidToken)
		return
	}

	year := queryYear(r)
	if year == 0 {
		year = time.Now().Year()
	}

	balances, err := l.balances.ListByEmployeeYear(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = leave.ToBalanceResponse(b)
	}
	response.Success(w, responses)
}

// ProvisionBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ProvisionBalances(w http.ResponseWriter, r *http.Request) {
	var req leave.ProvisionBalancesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ProvisionBalances decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := l.balances.ProvisionDefaults(r.Context(), req.EmployeeID, req.Year); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances provisioned successfully", nil)
}

// CreateRequest implements LeaveHandler. The body is multipart: a JSON
// "data" field plus an optional "attachment" file.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)
	if employeeID == "" {
		response.HandleError(w, employee.ErrInvalidToken)
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	var req leave.SubmitLeaveRequestRequest
	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, header, err := r.FormFile("attachment")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileHeader = header
	} else if err != http.ErrMissingFile {
		slog.Error("Failed to read attachment", "error", err)
		response.BadRequest(w, "Failed to read attachment", nil)
		return
	}

	created, err := l.requests.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.ToRequestResponse(created))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)
	if employeeID == "" {
		response.HandleError(w, employee.ErrInvalidToken)
		return
	}

	requests, err := l.requests.ListRequests(r.Context(), leave.LeaveRequestFilter{
		EmployeeID: employeeID,
		Status:     leave.LeaveRequestStatus(r.URL.Query().Get("status")),
		Year:       queryYear(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRequestResponses(requests))
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := l.requests.ListRequests(r.Context(), leave.LeaveRequestFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Status:     leave.LeaveRequestStatus(r.URL.Query().Get("status")),
		Year:       queryYear(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRequestResponses(requests))
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	request, err := l.requests.GetRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Non-managers may only see their own requests.
	role := middleware.Role(r)
	if role == employee.RoleEmployee && request.EmployeeID != middleware.EmployeeID(r) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	response.Success(w, leave.ToRequestResponse(request))
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.ApproveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	approved, err := l.requests.Approve(r.Context(), req.RequestID, middleware.EmployeeID(r), req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leave.ToRequestResponse(approved))
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rejected, err := l.requests.Reject(r.Context(), req.RequestID, middleware.EmployeeID(r), req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leave.ToRequestResponse(rejected))
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	cancelled, err := l.requests.Cancel(r.Context(), requestID, middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", leave.ToRequestResponse(cancelled))
}

func toRequestResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = leave.ToRequestResponse(req)
	}
	return responses
}

func queryYear(r *http.Request) int {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	return year
}
