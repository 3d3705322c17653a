package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `u.id, u.email, u.password_hash, u.full_name, u.employee_code,
			   u.role, u.is_superuser, u.department_id, u.grade, u.manager_id,
			   u.hire_date, u.is_active, u.created_at, u.updated_at,
			   d.name AS department_name,
			   m.full_name AS manager_name`

const userJoins = `FROM users u
		LEFT JOIN departments d ON u.department_id = d.id
		LEFT JOIN users m ON u.manager_id = m.id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.EmployeeCode,
		&u.Role, &u.IsSuperuser, &u.DepartmentID, &u.Grade, &u.ManagerID,
		&u.HireDate, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&u.DepartmentName, &u.ManagerName,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			id, email, password_hash, full_name, employee_code,
			role, is_superuser, department_id, grade, manager_id,
			hire_date, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, TRUE, NOW(), NOW()
		) RETURNING id, is_active, created_at, updated_at
	`

	u.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.EmployeeCode,
		u.Role, u.IsSuperuser, u.DepartmentID, u.Grade, u.ManagerID,
		u.HireDate,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` ` + userJoins + ` WHERE u.id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` ` + userJoins + ` WHERE LOWER(u.email) = LOWER($1)`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` ` + userJoins + ` ORDER BY u.full_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

// ListActiveByRole implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` ` + userJoins + `
		WHERE u.role = $1 AND u.is_active = TRUE
		ORDER BY u.full_name`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	query := `UPDATE users SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.FullName != nil {
		query += fmt.Sprintf(", full_name = $%d", argIdx)
		args = append(args, *req.FullName)
		argIdx++
	}

	if req.Role != nil {
		query += fmt.Sprintf(", role = $%d", argIdx)
		args = append(args, *req.Role)
		argIdx++
	}

	if req.DepartmentID != nil {
		query += fmt.Sprintf(", department_id = $%d", argIdx)
		args = append(args, *req.DepartmentID)
		argIdx++
	}

	if req.Grade != nil {
		query += fmt.Sprintf(", grade = $%d", argIdx)
		args = append(args, *req.Grade)
		argIdx++
	}

	if req.ManagerID != nil {
		query += fmt.Sprintf(", manager_id = $%d", argIdx)
		args = append(args, *req.ManagerID)
		argIdx++
	}

	if req.IsActive != nil {
		query += fmt.Sprintf(", is_active = $%d", argIdx)
		args = append(args, *req.IsActive)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
