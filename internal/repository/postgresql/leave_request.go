package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `lr.id, lr.employee_id, lr.leave_type_id,
			   lr.start_date, lr.end_date, lr.total_days, lr.reason,
			   lr.status, lr.approval_comments, lr.approved_by, lr.decided_at,
			   lr.created_at, lr.updated_at,
			   u.full_name AS employee_name,
			   lt.name AS leave_type_name`

const leaveRequestJoins = `FROM leave_requests lr
		JOIN users u ON lr.employee_id = u.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	err := row.Scan(
		&request.ID, &request.EmployeeID, &request.LeaveTypeID,
		&request.StartDate, &request.EndDate, &request.TotalDays, &request.Reason,
		&request.Status, &request.ApprovalComments, &request.ApprovedBy, &request.DecidedAt,
		&request.CreatedAt, &request.UpdatedAt,
		&request.EmployeeName, &request.LeaveTypeName,
	)
	return request, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, total_days, reason,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	request.ID = uuid.NewString()
	request.Status = leave.LeaveRequestStatusPending
	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.TotalDays, request.Reason,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` ` + leaveRequestJoins + ` WHERE lr.id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	where := `WHERE lr.employee_id = $1`
	args := []interface{}{employeeID}
	return r.list(ctx, where, args, filter)
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, managerID *string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	where := `WHERE TRUE`
	args := []interface{}{}
	if managerID != nil {
		where = `WHERE u.manager_id = $1`
		args = append(args, *managerID)
	}
	return r.list(ctx, where, args, filter)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, where string, args []interface{}, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	argIdx := len(args) + 1
	if filter.Status != nil {
		where += fmt.Sprintf(" AND lr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Year != nil {
		where += fmt.Sprintf(" AND EXTRACT(YEAR FROM lr.start_date) = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) ` + leaveRequestJoins + ` ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + leaveRequestColumns + ` ` + leaveRequestJoins + ` ` + where +
		fmt.Sprintf(` ORDER BY lr.created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}

	return requests, total, nil
}

// HasOverlap implements leave.LeaveRequestRepository. Rejected requests do not
// block the span; only pending and approved ones count.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ($2, $3)
			  AND start_date <= $5
			  AND end_date >= $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID,
		leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved,
		start, end,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateDecision implements leave.LeaveRequestRepository. The status guard in
// the WHERE clause makes concurrent decisions race-safe: only one decision
// ever moves a request out of pending.
func (r *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, id string, status leave.LeaveRequestStatus, approvedBy string, comments *string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, approval_comments = $4,
			decided_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, status, approvedBy, comments, leave.LeaveRequestStatusPending).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing request from one already decided.
			var exists bool
			if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
				return leave.LeaveRequest{}, err
			}
			if !exists {
				return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
			}
			return leave.LeaveRequest{}, leave.ErrInvalidTransition
		}
		return leave.LeaveRequest{}, err
	}

	return r.GetByID(ctx, updatedID)
}
