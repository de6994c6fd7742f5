package domain

import (
	"testing"
	"time"
)

func TestOrderAdvance(t *testing.T) {
	t.Run("walks ordered to progressing to collected, one timestamp each", func(t *testing.T) {
		placed := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		order := &Order{ID: 1, State: OrderStateOrdered, OrderedAt: placed}

		picked := placed.Add(5 * time.Minute)
		if err := order.Advance(picked); err != nil {
			t.Fatalf("advance to progressing: %v", err)
		}
		if order.State != OrderStateProgressing {
			t.Errorf("expected progressing, got %s", order.State)
		}
		if order.ProgressingAt == nil || !order.ProgressingAt.Equal(picked) {
			t.Errorf("expected progressing timestamp %v, got %v", picked, order.ProgressingAt)
		}
		if order.CollectedAt != nil {
			t.Error("collected timestamp set too early")
		}

		collected := picked.Add(30 * time.Minute)
		if err := order.Advance(collected); err != nil {
			t.Fatalf("advance to collected: %v", err)
		}
		if order.State != OrderStateCollected {
			t.Errorf("expected collected, got %s", order.State)
		}
		if order.CollectedAt == nil || !order.CollectedAt.Equal(collected) {
			t.Errorf("expected collected timestamp %v, got %v", collected, order.CollectedAt)
		}
		if !order.ProgressingAt.Equal(picked) {
			t.Error("progressing timestamp changed on a later transition")
		}
	})

	t.Run("refuses to advance a collected order", func(t *testing.T) {
		order := &Order{ID: 2, State: OrderStateCollected}

		if err := order.Advance(time.Now()); err == nil {
			t.Fatal("expected an error advancing a collected order")
		}
	})

	t.Run("refuses an unknown state", func(t *testing.T) {
		order := &Order{ID: 3, State: OrderState("limbo")}

		if err := order.Advance(time.Now()); err == nil {
			t.Fatal("expected an error for an unknown state")
		}
	})
}

func TestOrderProductList(t *testing.T) {
	order := &Order{
		ID:       4,
		State:    OrderStateOrdered,
		Products: []Product{{ID: "0001", OrderedQuantity: 2}},
	}

	products := order.ProductList()
	products[0].OrderedQuantity = 99

	if order.Products[0].OrderedQuantity != 2 {
		t.Error("mutating ProductList() result leaked into the order")
	}
}
