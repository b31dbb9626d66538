package errors

import "fmt"

type ErrorCode string

const (
	// Generic codes
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCreateFailed       ErrorCode = "CREATE_FAILED"
	ErrGetFailed          ErrorCode = "GET_FAILED"
	ErrUpdateFailed       ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed       ErrorCode = "DELETE_FAILED"

	// Token codes
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Calendar / invitation codes
	ErrCalendarNotConnected ErrorCode = "CALENDAR_NOT_CONNECTED"
	ErrInvalidSchedule      ErrorCode = "INVALID_SCHEDULE"
	ErrRemoteNotFound       ErrorCode = "REMOTE_NOT_FOUND"
	ErrRemotePermanent      ErrorCode = "REMOTE_PERMANENT"
	ErrRemoteTransient      ErrorCode = "REMOTE_TRANSIENT"
	ErrAlreadyProcessed     ErrorCode = "ALREADY_PROCESSED"
	ErrExpired              ErrorCode = "EXPIRED"
	ErrRoleReplaced         ErrorCode = "ROLE_REPLACED"
)

// AppError is the error type every service returns. Code drives the HTTP
// mapping in the base controller; Err keeps the underlying cause for logs.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsTransient reports whether a provider error is eligible for a retry.
func (e *AppError) IsTransient() bool {
	return e != nil && e.Code == ErrRemoteTransient
}
