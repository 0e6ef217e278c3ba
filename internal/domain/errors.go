package domain

import (
	"errors"
	"strings"
)

var (
	ErrIdeaNotFound         = errors.New("idea not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidStatus        = errors.New("invalid idea status")
	ErrEmployeeNumberExists = errors.New("employee number already exists")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrCannotModifySelf     = errors.New("cannot deactivate or demote your own account")
	ErrInvalidOTP           = errors.New("invalid OTP")
	ErrOTPExpired           = errors.New("OTP expired or not requested")
	ErrTooManyAttempts      = errors.New("too many OTP attempts")
	ErrTooManyImages        = errors.New("too many images")
	ErrUnsupportedMedia     = errors.New("only image files are allowed")
	ErrFileTooLarge         = errors.New("file is too large")
	ErrValidation           = errors.New("validation failed")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input rejected before any store write.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
