package domain

import (
	"fmt"
	"time"
)

type OrderState string

const (
	OrderStateOrdered     OrderState = "ordered"
	OrderStateProgressing OrderState = "progressing"
	OrderStateCollected   OrderState = "collected"
)

// Next returns the state that follows s. The lifecycle is linear:
// ordered -> progressing -> collected, with no way back and no skipping.
func (s OrderState) Next() (OrderState, error) {
	switch s {
	case OrderStateOrdered:
		return OrderStateProgressing, nil
	case OrderStateProgressing:
		return OrderStateCollected, nil
	case OrderStateCollected:
		return "", ErrOrderCollected
	default:
		return "", fmt.Errorf("unknown order state %q", s)
	}
}

// Order is the snapshot produced by a successful checkout. Only the state and
// the timestamp of the transition being applied change after creation.
// Products always holds the organised (deduplicated, sorted) form, decoupled
// by value from the trolley it came from.
type Order struct {
	ID            int        `json:"order_id"`
	State         OrderState `json:"state"`
	OrderedAt     time.Time  `json:"ordered_at"`
	ProgressingAt *time.Time `json:"progressing_at,omitempty"`
	CollectedAt   *time.Time `json:"collected_at,omitempty"`
	Products      []Product  `json:"products"`
}

// Advance moves the order to its next lifecycle state, stamping the matching
// timestamp exactly once. Advancing a collected order is a caller error.
func (o *Order) Advance(now time.Time) error {
	next, err := o.State.Next()
	if err != nil {
		return err
	}

	switch next {
	case OrderStateProgressing:
		o.ProgressingAt = &now
	case OrderStateCollected:
		o.CollectedAt = &now
	}

	o.State = next
	return nil
}

// ProductList returns a copy of the order's products.
func (o *Order) ProductList() []Product {
	products := make([]Product, len(o.Products))
	copy(products, o.Products)
	return products
}
