package user

import "time"

type Role string

const (
	RoleJuniorStaff Role = "junior_staff"
	RoleSeniorStaff Role = "senior_staff"
	RoleManager     Role = "manager"
	RoleHR          Role = "hr"
	RoleAdmin       Role = "admin"
)

// Roles lists every valid role, in display order.
var Roles = []Role{RoleJuniorStaff, RoleSeniorStaff, RoleManager, RoleHR, RoleAdmin}

func IsValidRole(r string) bool {
	for _, role := range Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// User is an employee account. Managers are users too; ManagerID points at
// the designated approver for this employee's leave requests.
type User struct {
	ID           string
	Email        string
	PasswordHash *string
	FullName     string
	EmployeeCode string
	Role         Role
	IsSuperuser  bool
	DepartmentID *string
	Grade        *string
	ManagerID    *string
	HireDate     *time.Time
	IsActive     bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	DepartmentName *string
	ManagerName    *string
}
