package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the failure taxonomy. The API error handler maps
// each of these to a stable HTTP status code so clients can branch on them.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidState       = errors.New("operation not valid in current state")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// InsufficientStockError identifies which product could not cover the
// requested quantity. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
