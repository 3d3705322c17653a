package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// BalanceLedger owns all mutations of used_days. Balance rows are created
// lazily on first touch, seeded from the entitlement resolver.
type BalanceLedger struct {
	balances leave.LeaveBalanceRepository
	resolver *EntitlementResolver
	logger   *slog.Logger
}

func NewBalanceLedger(
	balances leave.LeaveBalanceRepository,
	resolver *EntitlementResolver,
	logger *slog.Logger,
) *BalanceLedger {
	return &BalanceLedger{
		balances: balances,
		resolver: resolver,
		logger:   logger,
	}
}

// GetOrCreate returns the balance row for (employee, type, year), creating it
// from the resolved entitlement when absent. Safe to call concurrently: the
// insert is idempotent and losers of the race re-read the winner's row.
func (l *BalanceLedger) GetOrCreate(ctx context.Context, employee user.User, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	balance, err := l.balances.GetByEmployeeTypeYear(ctx, employee.ID, leaveTypeID, year)
	if err == nil {
		return balance, nil
	}
	if err != leave.ErrBalanceNotFound {
		return leave.LeaveBalance{}, err
	}

	entitled, err := l.resolver.Resolve(ctx, employee, leaveTypeID, year)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	if _, err := l.balances.CreateIfAbsent(ctx, leave.LeaveBalance{
		EmployeeID:   employee.ID,
		LeaveTypeID:  leaveTypeID,
		Year:         year,
		EntitledDays: entitled,
		UsedDays:     0,
	}); err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("create balance: %w", err)
	}

	return l.balances.GetByEmployeeTypeYear(ctx, employee.ID, leaveTypeID, year)
}

// Reserve consumes days from the balance, failing with
// ErrInsufficientBalance when the entitlement cannot cover them.
func (l *BalanceLedger) Reserve(ctx context.Context, employee user.User, leaveTypeID string, year, days int) error {
	if _, err := l.GetOrCreate(ctx, employee, leaveTypeID, year); err != nil {
		return err
	}
	return l.balances.Reserve(ctx, employee.ID, leaveTypeID, year, days)
}

// Release returns days to the balance. A release that would drive used_days
// negative is clamped to zero and logged; it is never an error for the
// caller, whose cancellation must go through regardless.
func (l *BalanceLedger) Release(ctx context.Context, employeeID, leaveTypeID string, year, days int) error {
	clamped, err := l.balances.Release(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if clamped {
		l.logger.Warn("balance release clamped to zero",
			"employee_id", employeeID,
			"leave_type_id", leaveTypeID,
			"year", year,
			"days", days,
		)
	}
	return nil
}
