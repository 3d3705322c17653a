package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.entitled_days, lb.used_days, lb.has_override,
			   lb.created_at, lb.updated_at,
			   lt.name AS leave_type_name
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.leave_type_id = $2 AND lb.year = $3
	`

	var balance leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&balance.ID, &balance.EmployeeID, &balance.LeaveTypeID, &balance.Year,
		&balance.EntitledDays, &balance.UsedDays, &balance.HasOverride,
		&balance.CreatedAt, &balance.UpdatedAt,
		&balance.LeaveTypeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	return balance, nil
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.entitled_days, lb.used_days, lb.has_override,
			   lb.created_at, lb.updated_at,
			   lt.name AS leave_type_name
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var balance leave.LeaveBalance
		if err := rows.Scan(
			&balance.ID, &balance.EmployeeID, &balance.LeaveTypeID, &balance.Year,
			&balance.EntitledDays, &balance.UsedDays, &balance.HasOverride,
			&balance.CreatedAt, &balance.UpdatedAt,
			&balance.LeaveTypeName,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, nil
}

// CreateIfAbsent implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) CreateIfAbsent(ctx context.Context, balance leave.LeaveBalance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			entitled_days, used_days, has_override,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	commandTag, err := q.Exec(ctx, query,
		uuid.NewString(), balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.EntitledDays, balance.UsedDays, balance.HasOverride,
	)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

// Reserve implements leave.LeaveBalanceRepository. The guard on the UPDATE
// makes the check-and-increment a single atomic statement; a concurrent
// reservation that would overdraw the balance affects zero rows.
func (r *leaveBalanceRepositoryImpl) Reserve(ctx context.Context, employeeID, leaveTypeID string, year, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $4, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		  AND used_days + $4 <= entitled_days
	`

	commandTag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		// Either the row is missing or the balance cannot cover the request.
		var exists bool
		err := q.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM leave_balances
				WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
			)`, employeeID, leaveTypeID, year).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return leave.ErrBalanceNotFound
		}
		return leave.ErrInsufficientBalance
	}
	return nil
}

// Release implements leave.LeaveBalanceRepository. The guarded decrement is
// tried first; when used_days cannot cover the full amount the row is
// clamped to zero instead and the caller is told so.
func (r *leaveBalanceRepositoryImpl) Release(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days - $4, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		  AND used_days >= $4
	`

	commandTag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, days)
	if err != nil {
		return false, err
	}
	if commandTag.RowsAffected() == 1 {
		return false, nil
	}

	clampQuery := `
		UPDATE leave_balances
		SET used_days = 0, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	clampTag, err := q.Exec(ctx, clampQuery, employeeID, leaveTypeID, year)
	if err != nil {
		return false, err
	}
	if clampTag.RowsAffected() == 0 {
		return false, leave.ErrBalanceNotFound
	}
	return true, nil
}

// SetEntitlement implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) SetEntitlement(ctx context.Context, employeeID, leaveTypeID string, year, days int, markOverride bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			entitled_days, used_days, has_override,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, 0, $6, NOW(), NOW())
		ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE
		SET entitled_days = EXCLUDED.entitled_days,
			has_override = leave_balances.has_override OR EXCLUDED.has_override,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		uuid.NewString(), employeeID, leaveTypeID, year, days, markOverride,
	)
	return err
}
