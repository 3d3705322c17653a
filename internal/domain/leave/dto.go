package leave

import (
	"time"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/validator"
)

// Actor is the authenticated identity performing an operation, mapped from
// JWT claims by the HTTP layer. Never taken from request bodies.
type Actor struct {
	ID          string
	Role        user.Role
	IsSuperuser bool
}

type CreateLeaveTypeRequest struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	MaxDaysPerRequest *int    `json:"max_days_per_request,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 50 characters",
		})
	}
	if r.MaxDaysPerRequest != nil && *r.MaxDaysPerRequest <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_days_per_request",
			Message: "must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                string  `json:"-"`
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	MaxDaysPerRequest *int    `json:"max_days_per_request,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.MaxDaysPerRequest != nil && *r.MaxDaysPerRequest <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_days_per_request",
			Message: "must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitLeaveRequest struct {
	EmployeeID  string  `json:"-"` // from JWT
	LeaveTypeID string  `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      *string `json:"reason,omitempty"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "must be YYYY-MM-DD",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "must be YYYY-MM-DD",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DecisionRequest carries an approve or reject of a pending request.
type DecisionRequest struct {
	RequestID string `json:"-"`
	Actor     Actor  `json:"-"`
	Comments  string `json:"comments"`
}

type LeaveRequestFilter struct {
	Status *string
	Year   *int
	Page   int
	Limit  int
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Status != nil {
		switch LeaveRequestStatus(*f.Status) {
		case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "must be pending, approved or rejected",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveRequestResponse struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	EmployeeName     string     `json:"employee_name,omitempty"`
	LeaveTypeID      string     `json:"leave_type_id"`
	LeaveTypeName    string     `json:"leave_type_name,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	TotalDays        int        `json:"total_days"`
	Reason           *string    `json:"reason,omitempty"`
	Status           string     `json:"status"`
	ApprovalComments *string    `json:"approval_comments,omitempty"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

type LeaveBalanceResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	Year          int    `json:"year"`
	EntitledDays  int    `json:"entitled_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
	HasOverride   bool   `json:"has_override"`
}

// EntitlementItem is one (leave type, days) pair in a bulk entitlement set.
type EntitlementItem struct {
	LeaveTypeID  string `json:"leave_type_id"`
	EntitledDays int    `json:"entitled_days"`
}

type SetRoleEntitlementsRequest struct {
	Role  string            `json:"-"` // from URL
	Year  int               `json:"year"`
	Items []EntitlementItem `json:"items"`
}

func (r *SetRoleEntitlementsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !user.IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year out of range",
		})
	}
	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetEmployeeEntitlementsRequest struct {
	EmployeeID string            `json:"-"` // from URL
	Year       int               `json:"year"`
	Items      []EntitlementItem `json:"items"`
}

func (r *SetEmployeeEntitlementsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year out of range",
		})
	}
	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustBalanceRequest struct {
	EmployeeID  string `json:"-"` // from URL
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Adjustment  int    `json:"adjustment"` // signed change to used_days
	Reason      string `json:"reason"`
}

func (r *AdjustBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year out of range",
		})
	}
	if r.Adjustment == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "adjustment",
			Message: "adjustment must be non-zero",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ItemError reports one failed item of a bulk entitlement set. Item failures
// are collected, not fatal to the batch.
type ItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type EntitlementUpdateResult struct {
	Role            string      `json:"role,omitempty"`
	EmployeeID      string      `json:"employee_id,omitempty"`
	Year            int         `json:"year"`
	UsersAffected   int         `json:"users_affected"`
	BalancesUpdated int         `json:"balances_updated"`
	BalancesCreated int         `json:"balances_created"`
	Errors          []ItemError `json:"errors,omitempty"`
}

type RoleEntitlementSummary struct {
	Role         string                `json:"role"`
	UserCount    int                   `json:"user_count"`
	Entitlements []RoleEntitlementItem `json:"entitlements"`
}

type RoleEntitlementItem struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	EntitledDays  int    `json:"entitled_days"`
}
