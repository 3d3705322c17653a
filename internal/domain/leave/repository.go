package leave

import (
	"context"
	"time"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// LeaveTypeRepository - interface for the leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByName(ctx context.Context, name string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, req UpdateLeaveTypeRequest) error
	Deactivate(ctx context.Context, id string) error
}

// LeaveBalanceRepository - interface for the leave_balances ledger table.
// Reserve and Release are the only mutations of used_days.
type LeaveBalanceRepository interface {
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// CreateIfAbsent inserts the row unless the (employee, type, year) key
	// already exists; reports whether a row was created. Idempotent.
	CreateIfAbsent(ctx context.Context, balance LeaveBalance) (created bool, err error)

	// Reserve increments used_days by days only when the result stays within
	// entitled_days, as a single guarded UPDATE; returns
	// ErrInsufficientBalance without changing the row otherwise.
	Reserve(ctx context.Context, employeeID, leaveTypeID string, year, days int) error

	// Release decrements used_days by days, floored at zero; reports whether
	// the floor clamped the result.
	Release(ctx context.Context, employeeID, leaveTypeID string, year, days int) (clamped bool, err error)

	// SetEntitlement overwrites entitled_days, creating the row when absent.
	// markOverride flags the row as a per-employee override.
	SetEntitlement(ctx context.Context, employeeID, leaveTypeID string, year, days int, markOverride bool) error
}

// LeaveRequestRepository - interface for the leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// List returns requests visible to an approver; managerID narrows the
	// result to that manager's direct reports.
	List(ctx context.Context, managerID *string, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// UpdateDecision records a terminal transition. It only touches rows
	// still in pending status and reports ErrInvalidTransition otherwise.
	UpdateDecision(ctx context.Context, id string, status LeaveRequestStatus, approvedBy string, comments *string) (LeaveRequest, error)
	// HasOverlap reports whether the employee already has a pending or
	// approved request intersecting the [start, end] span.
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
}

// RoleEntitlementRepository - interface for the role_entitlements table
type RoleEntitlementRepository interface {
	Upsert(ctx context.Context, ent RoleEntitlement) error
	GetByRoleTypeYear(ctx context.Context, role user.Role, leaveTypeID string, year int) (RoleEntitlement, error)
	ListByRoleYear(ctx context.Context, role user.Role, year int) ([]RoleEntitlement, error)
}
