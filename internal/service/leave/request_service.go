package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
	"github.com/leavedesk/leavedesk-backend-go/internal/repository/postgresql"
)

// RequestService drives the leave request lifecycle: submission with the
// soft balance check, and the two terminal decisions.
type RequestService struct {
	users    user.UserRepository
	types    leave.LeaveTypeRepository
	requests leave.LeaveRequestRepository
	ledger   *BalanceLedger
	holidays leave.HolidaySet

	// runTx wraps the approve path in a database transaction.
	runTx func(ctx context.Context, fn func(ctx context.Context) error) error
	// now anchors the past-date check.
	now func() time.Time
}

func NewRequestService(
	db *database.DB,
	users user.UserRepository,
	types leave.LeaveTypeRepository,
	requests leave.LeaveRequestRepository,
	ledger *BalanceLedger,
	holidays leave.HolidaySet,
) *RequestService {
	return &RequestService{
		users:    users,
		types:    types,
		requests: requests,
		ledger:   ledger,
		holidays: holidays,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
				return fn(context.WithValue(ctx, "tx", tx))
			})
		},
		now: time.Now,
	}
}

// Submit validates the request, counts working days and records it as
// pending. The balance check here is advisory: days are only consumed at
// approval, so the balance can still change in between.
func (s *RequestService) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}

	// Requests starting today are fine; anything earlier is not.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}

	totalDays, err := leave.CountWorkingDays(start, end, s.holidays)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if totalDays == 0 {
		return leave.LeaveRequestResponse{}, leave.ErrZeroDurationRequest
	}

	leaveType, err := s.types.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeInactive
	}
	if leaveType.MaxDaysPerRequest != nil && totalDays > *leaveType.MaxDaysPerRequest {
		return leave.LeaveRequestResponse{}, leave.ErrExceedsMaxDays
	}

	employee, err := s.users.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	balance, err := s.ledger.GetOrCreate(ctx, employee, req.LeaveTypeID, start.Year())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if balance.RemainingDays() < totalDays {
		return leave.LeaveRequestResponse{}, leave.ErrInsufficientBalance
	}

	overlaps, err := s.requests.HasOverlap(ctx, req.EmployeeID, start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("check overlapping requests: %w", err)
	}
	if overlaps {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingRequest
	}

	created, err := s.requests.Create(ctx, leave.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   totalDays,
		Reason:      req.Reason,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("create leave request: %w", err)
	}

	created.EmployeeName = &employee.FullName
	created.LeaveTypeName = &leaveType.Name
	return toRequestResponse(created), nil
}

// Approve reserves the days and marks the request approved inside one
// transaction; either both happen or neither does.
func (s *RequestService) Approve(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	request, employee, err := s.loadForDecision(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var comments *string
	if req.Comments != "" {
		comments = &req.Comments
	}

	var updated leave.LeaveRequest
	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.Reserve(txCtx, employee, request.LeaveTypeID, request.Year(), request.TotalDays); err != nil {
			return err
		}

		updated, err = s.requests.UpdateDecision(txCtx, request.ID, leave.LeaveRequestStatusApproved, req.Actor.ID, comments)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toRequestResponse(updated), nil
}

// Reject records the rejection with the mandatory comment. No ledger
// mutation: rejected requests never held a reservation.
func (s *RequestService) Reject(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	request, _, err := s.loadForDecision(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if req.Comments == "" {
		return leave.LeaveRequestResponse{}, leave.ErrMissingReason
	}

	updated, err := s.requests.UpdateDecision(ctx, request.ID, leave.LeaveRequestStatusRejected, req.Actor.ID, &req.Comments)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toRequestResponse(updated), nil
}

// loadForDecision fetches the request and its employee and enforces the
// decision permission. The pending check here is best-effort; the real guard
// sits in UpdateDecision.
func (s *RequestService) loadForDecision(ctx context.Context, req leave.DecisionRequest) (leave.LeaveRequest, user.User, error) {
	request, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, user.User{}, err
	}

	employee, err := s.users.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, user.User{}, err
	}

	isDesignated := employee.ManagerID != nil && *employee.ManagerID == req.Actor.ID
	if !user.CanDecide(req.Actor.Role, req.Actor.IsSuperuser, isDesignated) {
		return leave.LeaveRequest{}, user.User{}, leave.ErrUnauthorizedDecision
	}

	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, user.User{}, leave.ErrInvalidTransition
	}

	return request, employee, nil
}

func toRequestResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		LeaveTypeID:      r.LeaveTypeID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		TotalDays:        r.TotalDays,
		Reason:           r.Reason,
		Status:           string(r.Status),
		ApprovalComments: r.ApprovalComments,
		ApprovedBy:       r.ApprovedBy,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.LeaveTypeName != nil {
		resp.LeaveTypeName = *r.LeaveTypeName
	}
	return resp
}
