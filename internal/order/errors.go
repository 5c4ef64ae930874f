package order

import (
	"errors"
	"fmt"
)

var ErrInvalidOrder = errors.New("invalid order")

type OrderError struct {
	Op      string
	OrderID int
	Err     error
}

func (e *OrderError) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("order.%s [%d]: %v", e.Op, e.OrderID, e.Err)
	}
	return fmt.Sprintf("order.%s: %v", e.Op, e.Err)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func IsInvalidOrder(err error) bool {
	return errors.Is(err, ErrInvalidOrder)
}
