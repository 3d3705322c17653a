package leave

import (
	"context"
)

type LeaveService interface {
	// Types
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveType, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) error
	GetLeaveType(ctx context.Context, id string) (LeaveType, error)
	ListLeaveTypes(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	DeleteLeaveType(ctx context.Context, id string) error

	// Requests
	SubmitRequest(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	ApproveRequest(ctx context.Context, req DecisionRequest) (LeaveRequestResponse, error)
	RejectRequest(ctx context.Context, req DecisionRequest) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, requestID string, actor Actor) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, employeeID string, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListRequests(ctx context.Context, actor Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)

	// Balances
	GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error)
	SetEmployeeEntitlements(ctx context.Context, req SetEmployeeEntitlementsRequest) (EntitlementUpdateResult, error)
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (LeaveBalanceResponse, error)

	// Role entitlements
	ListRoleEntitlements(ctx context.Context, year int) ([]RoleEntitlementSummary, error)
	SetRoleEntitlements(ctx context.Context, req SetRoleEntitlementsRequest) (EntitlementUpdateResult, error)
}
