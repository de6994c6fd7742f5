package format

import (
	"strings"
	"testing"
	"time"

	"github.com/westgate-labs/happyshop/internal/domain"
)

func TestMoney(t *testing.T) {
	cases := []struct {
		pence int64
		want  string
	}{
		{0, "£0.00"},
		{5, "£0.05"},
		{100, "£1.00"},
		{1250, "£12.50"},
		{-350, "-£3.50"},
	}

	for _, c := range cases {
		if got := Money(c.pence); got != c.want {
			t.Errorf("Money(%d) = %s, want %s", c.pence, got, c.want)
		}
	}
}

func TestProductList(t *testing.T) {
	t.Run("empty list renders empty string", func(t *testing.T) {
		if got := ProductList(nil); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("renders lines and total", func(t *testing.T) {
		got := ProductList([]domain.Product{
			{ID: "0001", Description: "Apples", UnitPrice: 100, OrderedQuantity: 2},
			{ID: "0002", Description: "Radio", UnitPrice: 1000, OrderedQuantity: 1},
		})

		if !strings.Contains(got, "0001 Apples (2 @ £1.00) £2.00") {
			t.Errorf("missing apples line in %q", got)
		}
		if !strings.Contains(got, "Total: £12.00") {
			t.Errorf("missing total in %q", got)
		}
	})
}

func TestReceipt(t *testing.T) {
	ordered := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	order := &domain.Order{
		ID:        42,
		State:     domain.OrderStateOrdered,
		OrderedAt: ordered,
		Products: []domain.Product{
			{ID: "0001", Description: "Apples", UnitPrice: 100, OrderedQuantity: 2},
		},
	}

	got := Receipt(order)
	if !strings.Contains(got, "Order_ID: 42") {
		t.Errorf("missing order id in %q", got)
	}
	if !strings.Contains(got, "2026-03-14 10:30:00") {
		t.Errorf("missing ordered time in %q", got)
	}
	if !strings.Contains(got, "0001 Apples") {
		t.Errorf("missing product line in %q", got)
	}
}

func TestOrderDetails(t *testing.T) {
	ordered := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	picked := ordered.Add(10 * time.Minute)
	order := &domain.Order{
		ID:            7,
		State:         domain.OrderStateProgressing,
		OrderedAt:     ordered,
		ProgressingAt: &picked,
		Products: []domain.Product{
			{ID: "0002", Description: "Radio", UnitPrice: 1000, OrderedQuantity: 1},
		},
	}

	got := OrderDetails(order)
	if !strings.Contains(got, "State: progressing") {
		t.Errorf("missing state in %q", got)
	}
	if !strings.Contains(got, "ProgressingDateTime: 2026-03-14 10:40:00") {
		t.Errorf("missing progressing time in %q", got)
	}
	if !strings.Contains(got, "CollectedDateTime: \n") {
		t.Errorf("expected blank collected time in %q", got)
	}
}
