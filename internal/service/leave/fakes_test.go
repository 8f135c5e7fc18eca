package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes. Mutations are guarded by a mutex so the
// concurrency tests exercise the same atomicity contract the SQL guards give
// the real implementations.

type fakeLeaveTypeRepo struct {
	mu    sync.Mutex
	seq   int
	types map[string]leave.LeaveType
}

func newFakeLeaveTypeRepo() *fakeLeaveTypeRepo {
	return &fakeLeaveTypeRepo{types: make(map[string]leave.LeaveType)}
}

func (r *fakeLeaveTypeRepo) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.types {
		if existing.Code == lt.Code {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
	}
	r.seq++
	lt.ID = fmt.Sprintf("type-%d", r.seq)
	r.types[lt.ID] = lt
	return lt, nil
}

func (r *fakeLeaveTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lt, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *fakeLeaveTypeRepo) GetByCode(ctx context.Context, code string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lt := range r.types {
		if lt.Code == code {
			return lt, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeLeaveTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveType, 0, len(r.types))
	for _, lt := range r.types {
		out = append(out, lt)
	}
	return out, nil
}

type balanceKey struct {
	employeeID  string
	leaveTypeID string
	year        int
}

type fakeLeaveBalanceRepo struct {
	mu       sync.Mutex
	seq      int
	balances map[balanceKey]*leave.LeaveBalance
}

func newFakeLeaveBalanceRepo() *fakeLeaveBalanceRepo {
	return &fakeLeaveBalanceRepo{balances: make(map[balanceKey]*leave.LeaveBalance)}
}

func (r *fakeLeaveBalanceRepo) CreateIfAbsent(ctx context.Context, balance leave.LeaveBalance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey{balance.EmployeeID, balance.LeaveTypeID, balance.Year}
	if _, ok := r.balances[key]; ok {
		return false, nil
	}
	r.seq++
	balance.ID = fmt.Sprintf("balance-%d", r.seq)
	r.balances[key] = &balance
	return true, nil
}

func (r *fakeLeaveBalanceRepo) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return *b, nil
}

func (r *fakeLeaveBalanceRepo) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveBalance, 0)
	for key, b := range r.balances {
		if key.employeeID == employeeID && key.year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeLeaveBalanceRepo) TryDebit(ctx context.Context, balanceID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.balances {
		if b.ID != balanceID {
			continue
		}
		if b.Used.Add(amount).GreaterThan(b.Allocated) {
			return leave.ErrInsufficientBalance
		}
		b.Used = b.Used.Add(amount)
		return nil
	}
	return leave.ErrBalanceNotFound
}

type fakeLeaveRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*leave.LeaveRequest
}

func newFakeLeaveRequestRepo() *fakeLeaveRequestRepo {
	return &fakeLeaveRequestRepo{requests: make(map[string]*leave.LeaveRequest)}
}

func (r *fakeLeaveRequestRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.ID = fmt.Sprintf("request-%d", r.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = &request
	return request, nil
}

func (r *fakeLeaveRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return *req, nil
}

func (r *fakeLeaveRequestRepo) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveRequest, 0)
	for _, req := range r.requests {
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.Year != 0 && req.StartDate.Year() != filter.Year {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeLeaveRequestRepo) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.EmployeeID != employeeID || req.ID == excludeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		// Inclusive bounds on both sides.
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLeaveRequestRepo) UpdateStatusFromPending(ctx context.Context, id string, status leave.LeaveRequestStatus, approverID *string, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != leave.StatusPending {
		return leave.ErrInvalidStateTransition
	}
	req.Status = status
	req.ApproverID = approverID
	req.ApproveComment = comment
	req.UpdatedAt = time.Now()
	return nil
}

func (r *fakeLeaveRequestRepo) CancelFromPending(ctx context.Context, id string, cancelledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != leave.StatusPending {
		return leave.ErrInvalidStateTransition
	}
	req.Status = leave.StatusCancelled
	req.CancelledAt = &cancelledAt
	req.UpdatedAt = cancelledAt
	return nil
}

type fakeHolidayRepo struct {
	mu       sync.Mutex
	holidays []leave.Holiday
}

func newFakeHolidayRepo(holidays ...leave.Holiday) *fakeHolidayRepo {
	return &fakeHolidayRepo{holidays: holidays}
}

func (r *fakeHolidayRepo) Create(ctx context.Context, holiday leave.Holiday) (leave.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.holidays {
		if h.Date.Equal(holiday.Date) {
			return leave.Holiday{}, leave.ErrHolidayExists
		}
	}
	r.holidays = append(r.holidays, holiday)
	return holiday, nil
}

func (r *fakeHolidayRepo) List(ctx context.Context) ([]leave.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]leave.Holiday(nil), r.holidays...), nil
}

func (r *fakeHolidayRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]leave.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.Holiday, 0)
	for _, h := range r.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, emp := range employees {
		r.employees[emp.ID] = emp
	}
	return r
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if existing.EmployeeCode == emp.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]employee.Employee, 0)
	for _, emp := range r.employees {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) CountActive(ctx context.Context) (int, error) {
	active, err := r.ListActive(ctx)
	return len(active), err
}

// passthroughTx runs the function directly; the fakes are individually atomic.
type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingNotifier captures dispatched events for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	submitted []leave.LeaveRequest
	changed   []leave.LeaveRequest
}

func (n *recordingNotifier) LeaveSubmitted(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, req)
}

func (n *recordingNotifier) LeaveStatusChanged(ctx context.Context, req leave.LeaveRequest, leaveType leave.LeaveType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, req)
}

func (n *recordingNotifier) statusChangedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.changed)
}
