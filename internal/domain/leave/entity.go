package leave

import (
	"time"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// LeaveType entity. Reference data created and edited by HR.
type LeaveType struct {
	ID                string
	Name              string
	Description       *string
	MaxDaysPerRequest *int
	IsActive          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest entity. TotalDays is the working-day span computed at
// submission and never recomputed. Requests are never deleted; approved and
// rejected are terminal states.
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	TotalDays int
	Reason    *string

	Status           LeaveRequestStatus
	ApprovalComments *string
	ApprovedBy       *string
	DecidedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	EmployeeName  *string
	LeaveTypeName *string
}

// Year returns the accounting year the request is attributed to. Spans
// crossing a year boundary belong entirely to the start year.
func (r LeaveRequest) Year() int {
	return r.StartDate.Year()
}

// LeaveBalance is the ledger entry for one (employee, leave type, year).
// RemainingDays is always derived from entitled and used, never stored.
// HasOverride marks entries whose entitlement was set per-employee by HR;
// role-level propagation skips those.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	EntitledDays int
	UsedDays     int
	HasOverride  bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	LeaveTypeName *string
}

// RemainingDays may go negative after an HR entitlement cut; that is
// surfaced, not blocked.
func (b LeaveBalance) RemainingDays() int {
	return b.EntitledDays - b.UsedDays
}

// RoleEntitlement is the per-role default entitlement for a leave type and
// year, read by the resolver when no per-employee override exists.
type RoleEntitlement struct {
	Role         user.Role
	LeaveTypeID  string
	Year         int
	EntitledDays int

	UpdatedAt time.Time

	// Joined for responses
	LeaveTypeName *string
}
