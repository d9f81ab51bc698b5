package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeState      ErrorType = "STATE_ERROR"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeInvalidWallClock ErrorCode = "INVALID_WALL_CLOCK"
	ErrCodeReasonRequired   ErrorCode = "REASON_REQUIRED"

	ErrCodeAlreadyClockedIn ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeNoOpenEntry      ErrorCode = "NO_OPEN_ENTRY"
	ErrCodeEntryNotFound    ErrorCode = "ENTRY_NOT_FOUND"
	ErrCodeEntryConflict    ErrorCode = "TIME_ENTRY_CONFLICT"

	ErrCodeShiftConflict ErrorCode = "SHIFT_CONFLICT"
	ErrCodeShiftNotFound ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeInvalidShift  ErrorCode = "INVALID_SHIFT_STATUS"

	ErrCodeSessionNotFound     ErrorCode = "CASH_SESSION_NOT_FOUND"
	ErrCodeInvalidSessionState ErrorCode = "INVALID_SESSION_STATE"

	ErrCodeRunNotFound           ErrorCode = "PAYROLL_RUN_NOT_FOUND"
	ErrCodeRunFinalized          ErrorCode = "PAYROLL_RUN_FINALIZED"
	ErrCodeMissingBiweeklyAnchor ErrorCode = "MISSING_BIWEEKLY_ANCHOR"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmployeeInactive   ErrorCode = "EMPLOYEE_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewStateError reports an operation attempted against a record whose current
// status forbids it (double clock-in, review on a closed session, ...).
// Non-retryable from the caller's point of view.
func NewStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewConflictError carries the full set of overlapping records in Details so
// the caller can surface all of them in one response.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrAlreadyClockedIn = NewStateError("employee already has an open time entry", ErrCodeAlreadyClockedIn)
	ErrNoOpenEntry      = NewStateError("employee has no open time entry", ErrCodeNoOpenEntry)
	ErrEntryNotFound    = NewNotFoundError("time entry not found", ErrCodeEntryNotFound)

	ErrShiftNotFound = NewNotFoundError("shift not found", ErrCodeShiftNotFound)

	ErrSessionNotFound     = NewNotFoundError("cash drawer session not found", ErrCodeSessionNotFound)
	ErrInvalidSessionState = NewStateError("cash drawer session is not awaiting review", ErrCodeInvalidSessionState)

	ErrRunNotFound  = NewNotFoundError("payroll run not found", ErrCodeRunNotFound)
	ErrRunFinalized = NewStateError("payroll run is finalized and cannot be modified", ErrCodeRunFinalized)

	ErrInvalidCredentials = NewForbiddenError("invalid employee number or PIN", ErrCodeInvalidCredentials)
	ErrEmployeeInactive   = NewForbiddenError("employee account is inactive", ErrCodeEmployeeInactive)
	ErrInvalidToken       = NewForbiddenError("invalid token", ErrCodeInvalidToken)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
