package leave

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/storage"
	"github.com/cmlabs-hris/leave-tracker-go/internal/service/file"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.FileStorage = (*storageAdapter)(nil)

// storageAdapter is the in-memory FileStorage used by the submit tests.
type storageAdapter struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newStorageAdapter() *storageAdapter {
	return &storageAdapter{files: make(map[string][]byte)}
}

func (s *storageAdapter) Upload(ctx context.Context, f io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return path, nil
}

func (s *storageAdapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *storageAdapter) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *storageAdapter) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok, nil
}

func (s *storageAdapter) URL(path string) string {
	return "/uploads/" + path
}

// attachmentFile adapts a bytes.Reader to multipart.File.
type attachmentFile struct {
	*bytes.Reader
}

func (attachmentFile) Close() error { return nil }

var _ multipart.File = attachmentFile{}

type testEnv struct {
	types     *fakeLeaveTypeRepo
	balances  *fakeLeaveBalanceRepo
	requests  *fakeLeaveRequestRepo
	holidays  *fakeHolidayRepo
	employees *fakeEmployeeRepo
	notifier  *recordingNotifier
	storage   *storageAdapter

	annual leave.LeaveType
	svc    *RequestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	managerID := "mgr-1"
	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-1", EmployeeCode: "EMP-0001", FullName: "Dina", Email: "dina@example.com", ManagerID: &managerID, Role: employee.RoleEmployee, IsActive: true},
		employee.Employee{ID: "mgr-1", EmployeeCode: "MGR-0001", FullName: "Raka", Email: "raka@example.com", Role: employee.RoleManager, IsActive: true},
	)

	types := newFakeLeaveTypeRepo()
	annual, err := types.Create(context.Background(), leave.LeaveType{
		Code:              "ANNUAL",
		Name:              "Annual Leave",
		DefaultAllocation: decimal.NewFromInt(12),
		AllowHalfDay:      true,
		IsPaid:            true,
	})
	require.NoError(t, err)

	balances := newFakeLeaveBalanceRepo()
	requests := newFakeLeaveRequestRepo()
	holidays := newFakeHolidayRepo()
	notifier := &recordingNotifier{}
	adapter := newStorageAdapter()

	env := &testEnv{
		types:     types,
		balances:  balances,
		requests:  requests,
		holidays:  holidays,
		employees: employees,
		notifier:  notifier,
		storage:   adapter,
		annual:    annual,
	}

	validator := NewValidator(balances, requests, holidays)
	env.svc = NewRequestService(
		passthroughTx{},
		types,
		balances,
		requests,
		employees,
		validator,
		file.NewService(adapter),
		notifier,
	)
	env.svc.now = func() time.Time { return testToday }

	return env
}

func (env *testEnv) seedAnnualBalance(t *testing.T, allocated, used float64) {
	t.Helper()
	seedBalance(t, env.balances, "emp-1", env.annual.ID, 2026, allocated, used)
}

func (env *testEnv) pendingRequest(t *testing.T, start, end time.Time) leave.LeaveRequest {
	t.Helper()
	created, err := env.requests.Create(context.Background(), leave.LeaveRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: env.annual.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      "Family trip",
		Status:      leave.StatusPending,
	})
	require.NoError(t, err)
	return created
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 0)

	created, err := env.svc.Submit(context.Background(), leave.SubmitLeaveRequestRequest{
		EmployeeID:    "emp-1",
		LeaveTypeCode: "ANNUAL",
		StartDate:     "2026-03-09",
		EndDate:       "2026-03-11",
		Reason:        "Family trip",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, leave.StatusPending, created.Status)
	assert.Nil(t, created.AttachmentPath)
	assert.Len(t, env.notifier.submitted, 1)
}

func TestSubmitTodayInNegativeOffsetZone(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 0)

	// 01:00 local in UTC-7 is 08:00 UTC the same calendar day. The past-date
	// gate compares calendar dates, so a request starting today must pass
	// whatever zone the host clock reports.
	zone := time.FixedZone("UTC-7", -7*60*60)
	env.svc.now = func() time.Time { return time.Date(2026, 3, 2, 1, 0, 0, 0, zone) }

	created, err := env.svc.Submit(context.Background(), leave.SubmitLeaveRequestRequest{
		EmployeeID:    "emp-1",
		LeaveTypeCode: "ANNUAL",
		StartDate:     "2026-03-02",
		EndDate:       "2026-03-02",
		Reason:        "Same-day request",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, created.Status)
}

func TestSubmitRejectsUnknownLeaveType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Submit(context.Background(), leave.SubmitLeaveRequestRequest{
		EmployeeID:    "emp-1",
		LeaveTypeCode: "NOPE",
		StartDate:     "2026-03-09",
		EndDate:       "2026-03-11",
		Reason:        "Family trip",
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestSubmitRequiresAttachment(t *testing.T) {
	env := newTestEnv(t)
	sick, err := env.types.Create(context.Background(), leave.LeaveType{
		Code:              "SICK",
		Name:              "Sick Leave",
		RequireAttachment: true,
		IsPaid:            true,
	})
	require.NoError(t, err)
	seedBalance(t, env.balances, "emp-1", sick.ID, 2026, 10, 0)

	_, err = env.svc.Submit(context.Background(), leave.SubmitLeaveRequestRequest{
		EmployeeID:    "emp-1",
		LeaveTypeCode: "SICK",
		StartDate:     "2026-03-09",
		EndDate:       "2026-03-09",
		Reason:        "Flu",
	})
	assert.ErrorIs(t, err, leave.ErrAttachmentRequired)
}

func TestSubmitStoresAttachment(t *testing.T) {
	env := newTestEnv(t)
	sick, err := env.types.Create(context.Background(), leave.LeaveType{
		Code:              "SICK",
		Name:              "Sick Leave",
		RequireAttachment: true,
		IsPaid:            true,
	})
	require.NoError(t, err)
	seedBalance(t, env.balances, "emp-1", sick.ID, 2026, 10, 0)

	created, err := env.svc.Submit(context.Background(), leave.SubmitLeaveRequestRequest{
		EmployeeID:    "emp-1",
		LeaveTypeCode: "SICK",
		StartDate:     "2026-03-09",
		EndDate:       "2026-03-09",
		Reason:        "Flu",
		File:          attachmentFile{bytes.NewReader([]byte("certificate"))},
		FileHeader:    &multipart.FileHeader{Filename: "certificate.pdf"},
	})
	require.NoError(t, err)

	require.NotNil(t, created.AttachmentPath)
	assert.True(t, strings.HasPrefix(*created.AttachmentPath, "EMP-0001/20260309_"))
	assert.True(t, strings.HasSuffix(*created.AttachmentPath, ".pdf"))

	exists, err := env.storage.Exists(context.Background(), *created.AttachmentPath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApproveDebitsBalanceAndFlipsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 0)
	req := env.pendingRequest(t, date(2026, 3, 9), date(2026, 3, 11))

	approved, err := env.svc.Approve(context.Background(), req.ID, "mgr-1", "Enjoy")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, "mgr-1", *approved.ApproverID)
	assert.Equal(t, "Enjoy", approved.ApproveComment)

	balance, err := env.balances.GetByEmployeeTypeYear(context.Background(), "emp-1", env.annual.ID, 2026)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(decimal.NewFromInt(3)))
	assert.True(t, balance.Allocated.Equal(decimal.NewFromInt(10)))

	assert.Equal(t, 1, env.notifier.statusChangedCount())
}

func TestApproveRequiresPendingStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 0)
	req := env.pendingRequest(t, date(2026, 3, 9), date(2026, 3, 11))
	require.NoError(t, env.requests.UpdateStatusFromPending(context.Background(), req.ID, leave.StatusRejected, nil, ""))

	_, err := env.svc.Approve(context.Background(), req.ID, "mgr-1", "")
	assert.ErrorIs(t, err, leave.ErrInvalidStateTransition)
}

func TestApproveInsufficientBalanceLeavesRequestPending(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 8)
	req := env.pendingRequest(t, date(2026, 3, 9), date(2026, 3, 11))

	_, err := env.svc.Approve(context.Background(), req.ID, "mgr-1", "")
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	stored, err := env.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)

	balance, err := env.balances.GetByEmployeeTypeYear(context.Background(), "emp-1", env.annual.ID, 2026)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(decimal.NewFromInt(8)))
}

func TestApproveUnpaidTypeSkipsLedger(t *testing.T) {
	env := newTestEnv(t)
	unpaid, err := env.types.Create(context.Background(), leave.LeaveType{
		Code:   "UNPAID",
		Name:   "Unpaid Leave",
		IsPaid: false,
	})
	require.NoError(t, err)

	created, err := env.requests.Create(context.Background(), leave.LeaveRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: unpaid.ID,
		StartDate:   date(2026, 3, 9),
		EndDate:     date(2026, 3, 13),
		Reason:      "Sabbatical week",
		Status:      leave.StatusPending,
	})
	require.NoError(t, err)

	approved, err := env.svc.Approve(context.Background(), created.ID, "mgr-1", "")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
}

func TestRejectNeverTouchesBalance(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 4)
	req := env.pendingRequest(t, date(2026, 3, 9), date(2026, 3, 11))

	rejected, err := env.svc.Reject(context.Background(), req.ID, "mgr-1", "Busy period")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, "Busy period", rejected.ApproveComment)

	balance, err := env.balances.GetByEmployeeTypeYear(context.Background(), "emp-1", env.annual.ID, 2026)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(decimal.NewFromInt(4)))
}

func TestCancelOnlyByOwnerAndOnlyPending(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnnualBalance(t, 10, 0)
	req := env.pendingRequest(t, date(2026, 3, 9), date(2026, 3, 11))

	// Someone else's cancel attempt looks like a missing request.
	_, err := env.svc.Cancel(context.Background(), req.ID, "mgr-1")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	cancelled, err := env.svc.Cancel(context.Background(), req.ID, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// A decided request cannot be cancelled again.
	_, err = env.svc.Cancel(context.Background(), req.ID, "emp-1")
	assert.ErrorIs(t, err, leave.ErrInvalidStateTransition)
}

func TestConcurrentApprovalsHaveSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	// Remaining balance covers one three-day request, not two.
	env.seedAnnualBalance(t, 10, 6)

	first := env.pendingRequest(t, date(2026, 3, 9), date(2026, 3, 11))
	second := env.pendingRequest(t, date(2026, 3, 16), date(2026, 3, 18))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.svc.Approve(context.Background(), id, "mgr-1", "")
		}(i, id)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, successes)

	balance, err := env.balances.GetByEmployeeTypeYear(context.Background(), "emp-1", env.annual.ID, 2026)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(decimal.NewFromInt(9)))
}
