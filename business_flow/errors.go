// Package businessflow contains the business logic for the application.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Auth errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Costing errors
	ErrMissingDimensions = errors.New("sheet dimensions are missing")
	ErrMissingConsumable = errors.New("consumable type or quantity is missing")
	ErrPriceNotAvailable = errors.New("no price recorded for the requested category")

	// Quote errors
	ErrClientNameRequired  = errors.New("client name is required")
	ErrProjectNameRequired = errors.New("project name is required")

	// Market errors
	ErrMaterialNotFound = errors.New("material not found")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsMissingDimensions(err error) bool {
	return errors.Is(err, ErrMissingDimensions)
}

func IsMissingConsumable(err error) bool {
	return errors.Is(err, ErrMissingConsumable)
}

func IsPriceNotAvailable(err error) bool {
	return errors.Is(err, ErrPriceNotAvailable)
}

func IsClientNameRequired(err error) bool {
	return errors.Is(err, ErrClientNameRequired)
}

func IsProjectNameRequired(err error) bool {
	return errors.Is(err, ErrProjectNameRequired)
}

func IsMaterialNotFound(err error) bool {
	return errors.Is(err, ErrMaterialNotFound)
}
