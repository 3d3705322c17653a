package leave

import "errors"

var (
	ErrInvalidRange         = errors.New("invalid date range")
	ErrZeroDurationRequest  = errors.New("no working days in requested span")
	ErrOverlappingRequest   = errors.New("overlapping leave request exists")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrUnauthorizedDecision = errors.New("actor may not decide this request")
	ErrUnauthorizedAccess   = errors.New("actor may not view this request")
	ErrInvalidTransition    = errors.New("leave request already decided")
	ErrMissingReason        = errors.New("rejection requires a comment")

	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeNameExists  = errors.New("leave type with this name already exists")
	ErrLeaveTypeInactive    = errors.New("leave type is inactive")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrEntitlementNotFound  = errors.New("role entitlement not found")
	ErrExceedsMaxDays       = errors.New("request exceeds maximum days per request")
)
