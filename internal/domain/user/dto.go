package user

import (
	"time"

	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/validator"
)

type CreateUserRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FullName     string  `json:"full_name"`
	EmployeeCode string  `json:"employee_code"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id"`
	Grade        *string `json:"grade"`
	ManagerID    *string `json:"manager_id"`
	HireDate     *string `json:"hire_date"`
}

func (r CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full name is required"})
	}
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee code is required"})
	}
	if !IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "invalid role"})
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateUserRequest struct {
	ID           string  `json:"-"`
	FullName     *string `json:"full_name"`
	Role         *string `json:"role"`
	DepartmentID *string `json:"department_id"`
	Grade        *string `json:"grade"`
	ManagerID    *string `json:"manager_id"`
	IsActive     *bool   `json:"is_active"`
}

func (r UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Role != nil && !IsValidRole(*r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "invalid role"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	EmployeeCode   string     `json:"employee_code"`
	Role           string     `json:"role"`
	IsSuperuser    bool       `json:"is_superuser"`
	DepartmentID   *string    `json:"department_id,omitempty"`
	DepartmentName *string    `json:"department_name,omitempty"`
	Grade          *string    `json:"grade,omitempty"`
	ManagerID      *string    `json:"manager_id,omitempty"`
	ManagerName    *string    `json:"manager_name,omitempty"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		EmployeeCode:   u.EmployeeCode,
		Role:           string(u.Role),
		IsSuperuser:    u.IsSuperuser,
		DepartmentID:   u.DepartmentID,
		DepartmentName: u.DepartmentName,
		Grade:          u.Grade,
		ManagerID:      u.ManagerID,
		ManagerName:    u.ManagerName,
		HireDate:       u.HireDate,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}
