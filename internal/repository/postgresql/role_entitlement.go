package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
)

type roleEntitlementRepositoryImpl struct {
	db *database.DB
}

func NewRoleEntitlementRepository(db *database.DB) leave.RoleEntitlementRepository {
	return &roleEntitlementRepositoryImpl{db: db}
}

// Upsert implements leave.RoleEntitlementRepository.
func (r *roleEntitlementRepositoryImpl) Upsert(ctx context.Context, ent leave.RoleEntitlement) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO role_entitlements (role, leave_type_id, year, entitled_days, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (role, leave_type_id, year) DO UPDATE
		SET entitled_days = EXCLUDED.entitled_days, updated_at = NOW()
	`

	_, err := q.Exec(ctx, query, ent.Role, ent.LeaveTypeID, ent.Year, ent.EntitledDays)
	return err
}

// GetByRoleTypeYear implements leave.RoleEntitlementRepository.
func (r *roleEntitlementRepositoryImpl) GetByRoleTypeYear(ctx context.Context, role user.Role, leaveTypeID string, year int) (leave.RoleEntitlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT re.role, re.leave_type_id, re.year, re.entitled_days, re.updated_at,
			   lt.name AS leave_type_name
		FROM role_entitlements re
		JOIN leave_types lt ON re.leave_type_id = lt.id
		WHERE re.role = $1 AND re.leave_type_id = $2 AND re.year = $3
	`

	var ent leave.RoleEntitlement
	err := q.QueryRow(ctx, query, role, leaveTypeID, year).Scan(
		&ent.Role, &ent.LeaveTypeID, &ent.Year, &ent.EntitledDays, &ent.UpdatedAt,
		&ent.LeaveTypeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.RoleEntitlement{}, leave.ErrEntitlementNotFound
		}
		return leave.RoleEntitlement{}, err
	}
	return ent, nil
}

// ListByRoleYear implements leave.RoleEntitlementRepository.
func (r *roleEntitlementRepositoryImpl) ListByRoleYear(ctx context.Context, role user.Role, year int) ([]leave.RoleEntitlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT re.role, re.leave_type_id, re.year, re.entitled_days, re.updated_at,
			   lt.name AS leave_type_name
		FROM role_entitlements re
		JOIN leave_types lt ON re.leave_type_id = lt.id
		WHERE re.role = $1 AND re.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, role, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entitlements := make([]leave.RoleEntitlement, 0)
	for rows.Next() {
		var ent leave.RoleEntitlement
		if err := rows.Scan(
			&ent.Role, &ent.LeaveTypeID, &ent.Year, &ent.EntitledDays, &ent.UpdatedAt,
			&ent.LeaveTypeName,
		); err != nil {
			return nil, err
		}
		entitlements = append(entitlements, ent)
	}

	return entitlements, nil
}
