package domain

import (
	"errors"
	"fmt"
)

// ErrOrderCollected is returned when a lifecycle transition is attempted on an
// order that has already been collected.
var ErrOrderCollected = errors.New("order already collected, no further transitions")

// InvalidQuantityError reports a trolley or order line with a zero or negative
// requested quantity. It blocks checkout but the line stays in the trolley for
// the customer to correct, unlike stock shortfalls which drop the line.
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity for product %s: %d", e.ProductID, e.Quantity)
}
