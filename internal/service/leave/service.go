package leave

import (
	"context"
	"log/slog"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	users    user.UserRepository
	types    leave.LeaveTypeRepository
	balances leave.LeaveBalanceRepository
	requests leave.LeaveRequestRepository

	ledger         *BalanceLedger
	requestService *RequestService
	admin          *EntitlementAdmin
}

func NewLeaveService(
	db *database.DB,
	users user.UserRepository,
	types leave.LeaveTypeRepository,
	balances leave.LeaveBalanceRepository,
	requests leave.LeaveRequestRepository,
	roleEntitlements leave.RoleEntitlementRepository,
	holidays leave.HolidaySet,
	logger *slog.Logger,
) leave.LeaveService {
	resolver := NewEntitlementResolver(types, roleEntitlements)
	ledger := NewBalanceLedger(balances, resolver, logger)
	return &LeaveServiceImpl{
		users:          users,
		types:          types,
		balances:       balances,
		requests:       requests,
		ledger:         ledger,
		requestService: NewRequestService(db, users, types, requests, ledger, holidays),
		admin:          NewEntitlementAdmin(users, types, balances, roleEntitlements, ledger, logger),
	}
}

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	if _, err := l.types.GetByName(ctx, req.Name); err == nil {
		return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
	} else if err != leave.ErrLeaveTypeNotFound {
		return leave.LeaveType{}, err
	}

	return l.types.Create(ctx, leave.LeaveType{
		Name:              req.Name,
		Description:       req.Description,
		MaxDaysPerRequest: req.MaxDaysPerRequest,
	})
}

// UpdateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	if req.Name != nil {
		existing, err := l.types.GetByName(ctx, *req.Name)
		if err == nil && existing.ID != req.ID {
			return leave.ErrLeaveTypeNameExists
		}
		if err != nil && err != leave.ErrLeaveTypeNotFound {
			return err
		}
	}
	return l.types.Update(ctx, req)
}

// GetLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveType(ctx context.Context, id string) (leave.LeaveType, error) {
	return l.types.GetByID(ctx, id)
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	return l.types.List(ctx, activeOnly)
}

// DeleteLeaveType implements leave.LeaveService. Types are deactivated, not
// removed: requests and balances keep referencing them.
func (l *LeaveServiceImpl) DeleteLeaveType(ctx context.Context, id string) error {
	return l.types.Deactivate(ctx, id)
}

// SubmitRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) SubmitRequest(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	return l.requestService.Submit(ctx, req)
}

// ApproveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveRequest(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return l.requestService.Approve(ctx, req)
}

// RejectRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectRequest(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return l.requestService.Reject(ctx, req)
}

// GetRequest implements leave.LeaveService. Owners always see their own
// requests; everyone else needs approver standing.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, requestID string, actor leave.Actor) (leave.LeaveRequestResponse, error) {
	request, err := l.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.EmployeeID != actor.ID && !user.IsApprover(actor.Role, actor.IsSuperuser) {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorizedAccess
	}

	return toRequestResponse(request), nil
}

// ListMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	requests, total, err := l.requests.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return toListResponse(requests, total, filter), nil
}

// ListRequests implements leave.LeaveService. HR and admins see everything;
// managers see their direct reports only.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, actor leave.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if !user.IsApprover(actor.Role, actor.IsSuperuser) {
		return leave.ListLeaveRequestResponse{}, leave.ErrUnauthorizedAccess
	}

	var managerID *string
	if actor.Role == user.RoleManager && !actor.IsSuperuser {
		managerID = &actor.ID
	}

	requests, total, err := l.requests.List(ctx, managerID, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return toListResponse(requests, total, filter), nil
}

// GetBalances implements leave.LeaveService. Balances for every active leave
// type are materialized first so the answer is complete even for employees
// who never touched some of them.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	employee, err := l.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	types, err := l.types.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, lt := range types {
		if _, err := l.ledger.GetOrCreate(ctx, employee, lt.ID, year); err != nil {
			return nil, err
		}
	}

	balances, err := l.balances.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, balance := range balances {
		responses = append(responses, toBalanceResponse(balance))
	}
	return responses, nil
}

// SetEmployeeEntitlements implements leave.LeaveService.
func (l *LeaveServiceImpl) SetEmployeeEntitlements(ctx context.Context, req leave.SetEmployeeEntitlementsRequest) (leave.EntitlementUpdateResult, error) {
	return l.admin.SetEmployeeEntitlements(ctx, req)
}

// AdjustBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) AdjustBalance(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LeaveBalanceResponse, error) {
	return l.admin.AdjustBalance(ctx, req)
}

// ListRoleEntitlements implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRoleEntitlements(ctx context.Context, year int) ([]leave.RoleEntitlementSummary, error) {
	return l.admin.ListRoleEntitlements(ctx, year)
}

// SetRoleEntitlements implements leave.LeaveService.
func (l *LeaveServiceImpl) SetRoleEntitlements(ctx context.Context, req leave.SetRoleEntitlementsRequest) (leave.EntitlementUpdateResult, error) {
	return l.admin.SetRoleEntitlements(ctx, req)
}

func toListResponse(requests []leave.LeaveRequest, total int64, filter leave.LeaveRequestFilter) leave.ListLeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toRequestResponse(request))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}
}
