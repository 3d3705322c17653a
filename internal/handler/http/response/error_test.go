package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/auth"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/department"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/validator"
)

func TestHandleErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account", auth.ErrUserInactive, http.StatusForbidden},
		{"expired token", auth.ErrTokenExpired, http.StatusUnauthorized},
		{"user not found", user.ErrUserNotFound, http.StatusNotFound},
		{"email exists", user.ErrEmailExists, http.StatusConflict},
		{"hr access required", user.ErrHRAccessRequired, http.StatusForbidden},
		{"department in use", department.ErrDepartmentInUse, http.StatusConflict},
		{"invalid range", leave.ErrInvalidRange, http.StatusBadRequest},
		{"zero duration", leave.ErrZeroDurationRequest, http.StatusBadRequest},
		{"insufficient balance", leave.ErrInsufficientBalance, http.StatusBadRequest},
		{"exceeds max days", leave.ErrExceedsMaxDays, http.StatusBadRequest},
		{"missing rejection comment", leave.ErrMissingReason, http.StatusBadRequest},
		{"inactive leave type", leave.ErrLeaveTypeInactive, http.StatusBadRequest},
		{"unauthorized decision", leave.ErrUnauthorizedDecision, http.StatusForbidden},
		{"unauthorized access", leave.ErrUnauthorizedAccess, http.StatusForbidden},
		{"already decided", leave.ErrInvalidTransition, http.StatusConflict},
		{"overlapping request", leave.ErrOverlappingRequest, http.StatusConflict},
		{"request not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound},
		{"leave type not found", leave.ErrLeaveTypeNotFound, http.StatusNotFound},
		{"balance not found", leave.ErrBalanceNotFound, http.StatusNotFound},
		{"leave type name exists", leave.ErrLeaveTypeNameExists, http.StatusConflict},
		{"unmapped error", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
		})
	}
}

func TestHandleErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "start_date", Message: "must be YYYY-MM-DD"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "must be YYYY-MM-DD", body.Error.Details["start_date"])
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
}
