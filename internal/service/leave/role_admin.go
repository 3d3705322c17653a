package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// EntitlementAdmin applies entitlement changes in bulk: per-role defaults
// that propagate to every active member of the role, and per-employee
// overrides that propagation leaves alone afterwards.
type EntitlementAdmin struct {
	users            user.UserRepository
	types            leave.LeaveTypeRepository
	balances         leave.LeaveBalanceRepository
	roleEntitlements leave.RoleEntitlementRepository
	ledger           *BalanceLedger
	logger           *slog.Logger
}

func NewEntitlementAdmin(
	users user.UserRepository,
	types leave.LeaveTypeRepository,
	balances leave.LeaveBalanceRepository,
	roleEntitlements leave.RoleEntitlementRepository,
	ledger *BalanceLedger,
	logger *slog.Logger,
) *EntitlementAdmin {
	return &EntitlementAdmin{
		users:            users,
		types:            types,
		balances:         balances,
		roleEntitlements: roleEntitlements,
		ledger:           ledger,
		logger:           logger,
	}
}

// SetRoleEntitlements upserts the role defaults and pushes them onto the
// balances of every active user holding the role. Rows marked as overrides
// keep their values. Item failures are collected per index and do not stop
// the batch.
func (a *EntitlementAdmin) SetRoleEntitlements(ctx context.Context, req leave.SetRoleEntitlementsRequest) (leave.EntitlementUpdateResult, error) {
	if !user.IsValidRole(req.Role) {
		return leave.EntitlementUpdateResult{}, user.ErrInvalidRole
	}
	role := user.Role(req.Role)

	members, err := a.users.ListActiveByRole(ctx, role)
	if err != nil {
		return leave.EntitlementUpdateResult{}, fmt.Errorf("list users by role: %w", err)
	}

	result := leave.EntitlementUpdateResult{
		Role: req.Role,
		Year: req.Year,
	}
	// UsersAffected counts employees whose balance rows actually changed;
	// members skipped for an override stay out of it.
	affected := make(map[string]struct{})

	for i, item := range req.Items {
		leaveType, err := a.types.GetByID(ctx, item.LeaveTypeID)
		if err != nil {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "leave type not found"})
			continue
		}
		if !leaveType.IsActive {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "leave type is inactive"})
			continue
		}
		if item.EntitledDays < 0 {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "entitled_days must not be negative"})
			continue
		}

		if err := a.roleEntitlements.Upsert(ctx, leave.RoleEntitlement{
			Role:         role,
			LeaveTypeID:  item.LeaveTypeID,
			Year:         req.Year,
			EntitledDays: item.EntitledDays,
		}); err != nil {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "failed to save role entitlement"})
			continue
		}

		for _, member := range members {
			balance, err := a.balances.GetByEmployeeTypeYear(ctx, member.ID, item.LeaveTypeID, req.Year)
			switch {
			case errors.Is(err, leave.ErrBalanceNotFound):
				created, err := a.balances.CreateIfAbsent(ctx, leave.LeaveBalance{
					EmployeeID:   member.ID,
					LeaveTypeID:  item.LeaveTypeID,
					Year:         req.Year,
					EntitledDays: item.EntitledDays,
				})
				if err != nil {
					return result, fmt.Errorf("create balance for %s: %w", member.ID, err)
				}
				if created {
					result.BalancesCreated++
					affected[member.ID] = struct{}{}
				}
			case err != nil:
				return result, err
			case balance.HasOverride:
				// HR set this one by hand; role defaults keep out.
			default:
				if err := a.balances.SetEntitlement(ctx, member.ID, item.LeaveTypeID, req.Year, item.EntitledDays, false); err != nil {
					return result, fmt.Errorf("update balance for %s: %w", member.ID, err)
				}
				result.BalancesUpdated++
				affected[member.ID] = struct{}{}
			}
		}
	}
	result.UsersAffected = len(affected)

	a.logger.Info("role entitlements updated",
		"role", req.Role,
		"year", req.Year,
		"users_affected", result.UsersAffected,
		"balances_created", result.BalancesCreated,
		"balances_updated", result.BalancesUpdated,
		"item_errors", len(result.Errors),
	)

	return result, nil
}

// SetEmployeeEntitlements sets per-employee balances and marks them as
// overrides so later role-wide updates skip them.
func (a *EntitlementAdmin) SetEmployeeEntitlements(ctx context.Context, req leave.SetEmployeeEntitlementsRequest) (leave.EntitlementUpdateResult, error) {
	employee, err := a.users.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.EntitlementUpdateResult{}, err
	}

	result := leave.EntitlementUpdateResult{
		EmployeeID: employee.ID,
		Year:       req.Year,
	}

	for i, item := range req.Items {
		leaveType, err := a.types.GetByID(ctx, item.LeaveTypeID)
		if err != nil {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "leave type not found"})
			continue
		}
		if !leaveType.IsActive {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "leave type is inactive"})
			continue
		}
		if item.EntitledDays < 0 {
			result.Errors = append(result.Errors, leave.ItemError{Index: i, Message: "entitled_days must not be negative"})
			continue
		}

		_, err = a.balances.GetByEmployeeTypeYear(ctx, employee.ID, item.LeaveTypeID, req.Year)
		existed := err == nil
		if err != nil && !errors.Is(err, leave.ErrBalanceNotFound) {
			return result, err
		}

		if err := a.balances.SetEntitlement(ctx, employee.ID, item.LeaveTypeID, req.Year, item.EntitledDays, true); err != nil {
			return result, fmt.Errorf("set entitlement: %w", err)
		}
		if existed {
			result.BalancesUpdated++
		} else {
			result.BalancesCreated++
		}
	}
	if result.BalancesCreated+result.BalancesUpdated > 0 {
		result.UsersAffected = 1
	}

	return result, nil
}

// AdjustBalance applies a signed correction to used_days: positive consumes
// days through the guarded reservation, negative returns them.
func (a *EntitlementAdmin) AdjustBalance(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LeaveBalanceResponse, error) {
	employee, err := a.users.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	if _, err := a.types.GetByID(ctx, req.LeaveTypeID); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	if req.Adjustment > 0 {
		err = a.ledger.Reserve(ctx, employee, req.LeaveTypeID, req.Year, req.Adjustment)
	} else {
		err = a.ledger.Release(ctx, employee.ID, req.LeaveTypeID, req.Year, -req.Adjustment)
	}
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	a.logger.Info("balance adjusted",
		"employee_id", employee.ID,
		"leave_type_id", req.LeaveTypeID,
		"year", req.Year,
		"adjustment", req.Adjustment,
		"reason", req.Reason,
	)

	balance, err := a.balances.GetByEmployeeTypeYear(ctx, employee.ID, req.LeaveTypeID, req.Year)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return toBalanceResponse(balance), nil
}

// ListRoleEntitlements reports the configured defaults for every role.
func (a *EntitlementAdmin) ListRoleEntitlements(ctx context.Context, year int) ([]leave.RoleEntitlementSummary, error) {
	summaries := make([]leave.RoleEntitlementSummary, 0, len(user.Roles))
	for _, role := range user.Roles {
		members, err := a.users.ListActiveByRole(ctx, role)
		if err != nil {
			return nil, err
		}

		ents, err := a.roleEntitlements.ListByRoleYear(ctx, role, year)
		if err != nil {
			return nil, err
		}

		items := make([]leave.RoleEntitlementItem, 0, len(ents))
		for _, ent := range ents {
			item := leave.RoleEntitlementItem{
				LeaveTypeID:  ent.LeaveTypeID,
				EntitledDays: ent.EntitledDays,
			}
			if ent.LeaveTypeName != nil {
				item.LeaveTypeName = *ent.LeaveTypeName
			}
			items = append(items, item)
		}

		summaries = append(summaries, leave.RoleEntitlementSummary{
			Role:         string(role),
			UserCount:    len(members),
			Entitlements: items,
		})
	}
	return summaries, nil
}

func toBalanceResponse(b leave.LeaveBalance) leave.LeaveBalanceResponse {
	resp := leave.LeaveBalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		LeaveTypeID:   b.LeaveTypeID,
		Year:          b.Year,
		EntitledDays:  b.EntitledDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
		HasOverride:   b.HasOverride,
	}
	if b.LeaveTypeName != nil {
		resp.LeaveTypeName = *b.LeaveTypeName
	}
	return resp
}
