package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrInvalidInput          = errors.New("invalid input")
	ErrBadRequest            = errors.New("bad request")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDuplicateNullifier    = errors.New("nullifier already bound to another identity")
	ErrAlreadyRegistered     = errors.New("identity already holds a credential from this issuer")
	ErrCreatorNotVerified    = errors.New("creator is not verified")
	ErrSubscriberNotEligible = errors.New("subscriber has no valid credential")
	ErrAmountOutOfBounds     = errors.New("amount out of bounds")
	ErrIntervalOutOfBounds   = errors.New("interval out of bounds")
	ErrAlreadySubscribed     = errors.New("active subscription already exists")
	ErrNotActive             = errors.New("subscription is not active")
	ErrNotOwner              = errors.New("subscription belongs to another subscriber")
	ErrNotDue                = errors.New("subscription is not due for charging")
	ErrDuplicateTx           = errors.New("transaction hash already recorded")
	ErrTransferFailed        = errors.New("funds transfer failed")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// StatusFor maps a domain error to its HTTP status. Validation failures map to
// 400, ownership to 403, conflicting writes to 409, NotDue to 422 (the request
// was well formed, the subscription simply is not chargeable right now).
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadySubscribed),
		errors.Is(err, ErrDuplicateNullifier),
		errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrDuplicateTx),
		errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrNotDue):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAmountOutOfBounds),
		errors.Is(err, ErrIntervalOutOfBounds),
		errors.Is(err, ErrCreatorNotVerified),
		errors.Is(err, ErrSubscriberNotEligible),
		errors.Is(err, ErrNotActive),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
