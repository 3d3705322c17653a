package leave

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

func newTestAdmin(t *testing.T) (*EntitlementAdmin, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := NewEntitlementAdmin(env.users, env.types, env.balances, env.roleEnts, env.ledger, logger)
	return admin, env
}

func TestSetRoleEntitlements(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()

	result, err := admin.SetRoleEntitlements(ctx, leave.SetRoleEntitlementsRequest{
		Role: string(user.RoleJuniorStaff),
		Year: 2025,
		Items: []leave.EntitlementItem{
			{LeaveTypeID: annualTypeID, EntitledDays: 25},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.UsersAffected)
	assert.Equal(t, 1, result.BalancesCreated)
	assert.Equal(t, 0, result.BalancesUpdated)
	assert.Empty(t, result.Errors)

	balance, err := env.balances.GetByEmployeeTypeYear(ctx, employeeID, annualTypeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 25, balance.EntitledDays)
	assert.False(t, balance.HasOverride)

	// The role default itself is recorded for future joiners.
	ent, err := env.roleEnts.GetByRoleTypeYear(ctx, user.RoleJuniorStaff, annualTypeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 25, ent.EntitledDays)
}

func TestSetRoleEntitlementsUpdatesExistingRows(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()

	// Materialize the row at the original 20 days first.
	_, err := env.ledger.GetOrCreate(ctx, testEmployee(), annualTypeID, 2025)
	require.NoError(t, err)

	result, err := admin.SetRoleEntitlements(ctx, leave.SetRoleEntitlementsRequest{
		Role:  string(user.RoleJuniorStaff),
		Year:  2025,
		Items: []leave.EntitlementItem{{LeaveTypeID: annualTypeID, EntitledDays: 18}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.BalancesUpdated)
	assert.Equal(t, 0, result.BalancesCreated)

	balance, err := env.balances.GetByEmployeeTypeYear(ctx, employeeID, annualTypeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 18, balance.EntitledDays)
}

func TestSetRoleEntitlementsSkipsOverrides(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()

	// HR hand-set this employee's entitlement; a later role change must not
	// touch it.
	_, err := admin.SetEmployeeEntitlements(ctx, leave.SetEmployeeEntitlementsRequest{
		EmployeeID: employeeID,
		Year:       2025,
		Items:      []leave.EntitlementItem{{LeaveTypeID: annualTypeID, EntitledDays: 30}},
	})
	require.NoError(t, err)

	result, err := admin.SetRoleEntitlements(ctx, leave.SetRoleEntitlementsRequest{
		Role:  string(user.RoleJuniorStaff),
		Year:  2025,
		Items: []leave.EntitlementItem{{LeaveTypeID: annualTypeID, EntitledDays: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.BalancesUpdated)
	assert.Equal(t, 0, result.BalancesCreated)
	// Nobody's balance changed, so nobody counts as affected.
	assert.Equal(t, 0, result.UsersAffected)

	balance, err := env.balances.GetByEmployeeTypeYear(ctx, employeeID, annualTypeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 30, balance.EntitledDays)
	assert.True(t, balance.HasOverride)
}

func TestSetRoleEntitlementsCollectsItemErrors(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()

	result, err := admin.SetRoleEntitlements(ctx, leave.SetRoleEntitlementsRequest{
		Role: string(user.RoleJuniorStaff),
		Year: 2025,
		Items: []leave.EntitlementItem{
			{LeaveTypeID: "lt-nope", EntitledDays: 10},
			{LeaveTypeID: inactiveTypeID, EntitledDays: 10},
			{LeaveTypeID: annualTypeID, EntitledDays: -1},
			{LeaveTypeID: annualTypeID, EntitledDays: 22},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, 0, result.Errors[0].Index)
	assert.Equal(t, 1, result.Errors[1].Index)
	assert.Equal(t, 2, result.Errors[2].Index)

	// The valid item still went through.
	assert.Equal(t, 1, result.UsersAffected)
	balance, err := env.balances.GetByEmployeeTypeYear(ctx, employeeID, annualTypeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 22, balance.EntitledDays)
}

func TestSetRoleEntitlementsInvalidRole(t *testing.T) {
	admin, _ := newTestAdmin(t)
	_, err := admin.SetRoleEntitlements(context.Background(), leave.SetRoleEntitlementsRequest{
		Role:  "intern",
		Year:  2025,
		Items: []leave.EntitlementItem{{LeaveTypeID: annualTypeID, EntitledDays: 10}},
	})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestSetEmployeeEntitlements(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()

	result, err := admin.SetEmployeeEntitlements(ctx, leave.SetEmployeeEntitlementsRequest{
		EmployeeID: employeeID,
		Year:       2025,
		Items:      []leave.EntitlementItem{{LeaveTypeID: annualTypeID, EntitledDays: 28}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.BalancesCreated)
	assert.Equal(t, 1, result.UsersAffected)

	balance, err := env.balances.GetByEmployeeTypeYear(ctx, employeeID, annualTypeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 28, balance.EntitledDays)
	assert.True(t, balance.HasOverride)
}

func TestSetEmployeeEntitlementsUnknownEmployee(t *testing.T) {
	admin, _ := newTestAdmin(t)
	_, err := admin.SetEmployeeEntitlements(context.Background(), leave.SetEmployeeEntitlementsRequest{
		EmployeeID: "u-ghost",
		Year:       2025,
		Items:      []leave.EntitlementItem{{LeaveTypeID: annualTypeID, EntitledDays: 10}},
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAdjustBalance(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()

	t.Run("positive consumes days", func(t *testing.T) {
		resp, err := admin.AdjustBalance(ctx, leave.AdjustBalanceRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: annualTypeID,
			Year:        2025,
			Adjustment:  3,
			Reason:      "leave taken before onboarding into the system",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.UsedDays)
		assert.Equal(t, 17, resp.RemainingDays)
	})

	t.Run("negative returns days", func(t *testing.T) {
		resp, err := admin.AdjustBalance(ctx, leave.AdjustBalanceRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: annualTypeID,
			Year:        2025,
			Adjustment:  -2,
			Reason:      "public holiday fell inside an approved span",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.UsedDays)
	})

	t.Run("cannot overdraw", func(t *testing.T) {
		_, err := admin.AdjustBalance(ctx, leave.AdjustBalanceRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: annualTypeID,
			Year:        2025,
			Adjustment:  25,
			Reason:      "fat-fingered import",
		})
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	})
}

func TestListRoleEntitlements(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()

	require.NoError(t, env.roleEnts.Upsert(ctx, leave.RoleEntitlement{
		Role:         user.RoleManager,
		LeaveTypeID:  annualTypeID,
		Year:         2025,
		EntitledDays: 24,
	}))

	summaries, err := admin.ListRoleEntitlements(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, summaries, len(user.Roles))

	byRole := make(map[string]leave.RoleEntitlementSummary, len(summaries))
	for _, s := range summaries {
		byRole[s.Role] = s
	}

	junior := byRole[string(user.RoleJuniorStaff)]
	assert.Equal(t, 1, junior.UserCount)
	require.Len(t, junior.Entitlements, 1)
	assert.Equal(t, 20, junior.Entitlements[0].EntitledDays)

	manager := byRole[string(user.RoleManager)]
	assert.Equal(t, 2, manager.UserCount)
	require.Len(t, manager.Entitlements, 1)
	assert.Equal(t, 24, manager.Entitlements[0].EntitledDays)

	hr := byRole[string(user.RoleHR)]
	assert.Equal(t, 1, hr.UserCount)
	assert.Empty(t, hr.Entitlements)
}
