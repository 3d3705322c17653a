package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// EntitlementResolver decides how many days an employee is entitled to for a
// leave type and year. Per-employee overrides live on the balance row itself;
// this resolver only answers the question for employees without a row yet,
// falling back from the role table to zero.
type EntitlementResolver struct {
	leaveTypes       leave.LeaveTypeRepository
	roleEntitlements leave.RoleEntitlementRepository
}

func NewEntitlementResolver(
	leaveTypes leave.LeaveTypeRepository,
	roleEntitlements leave.RoleEntitlementRepository,
) *EntitlementResolver {
	return &EntitlementResolver{
		leaveTypes:       leaveTypes,
		roleEntitlements: roleEntitlements,
	}
}

// Resolve returns the entitled days for the employee's role. A missing role
// entitlement resolves to zero days; a missing leave type is an error.
func (r *EntitlementResolver) Resolve(ctx context.Context, employee user.User, leaveTypeID string, year int) (int, error) {
	if _, err := r.leaveTypes.GetByID(ctx, leaveTypeID); err != nil {
		return 0, err
	}

	ent, err := r.roleEntitlements.GetByRoleTypeYear(ctx, employee.Role, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, leave.ErrEntitlementNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("resolve entitlement: %w", err)
	}
	return ent.EntitledDays, nil
}
