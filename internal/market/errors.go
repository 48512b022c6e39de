package market

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNotFound           = errors.New("not found")
	ErrNotOwner           = errors.New("not the owner of this resource")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnsupportedStatus  = errors.New("unsupported status value")
	ErrProductUnavailable = errors.New("product is not on shelf")
)

// InsufficientStockError identifies the offending product so the cart page can
// point at the line that blocked checkout.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s (requested %d, available %d)",
		e.ProductName, e.Requested, e.Available)
}
