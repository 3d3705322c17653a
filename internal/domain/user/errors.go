package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrEmployeeCodeExists     = errors.New("employee code already exists")
	ErrInvalidRole            = errors.New("invalid role")
	ErrHRAccessRequired       = errors.New("hr access required")
	ErrApproverAccessRequired = errors.New("approver access required")
)
