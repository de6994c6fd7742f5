// Package format renders product lists, receipts and money amounts for the
// presentation sink. Everything here is a pure function of its input.
package format

import (
	"fmt"
	"strings"

	"github.com/westgate-labs/happyshop/internal/domain"
)

// Money renders an amount of pence as pounds, e.g. 1250 -> "£12.50".
func Money(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s£%d.%02d", sign, pence/100, pence%100)
}

// ProductList renders one line per product with description, quantity and
// prices, followed by a total. An empty list renders as an empty string.
func ProductList(items []domain.Product) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	var total int64

	for _, p := range items {
		fmt.Fprintf(&b, "%s %s (%d @ %s) %s\n",
			p.ID, p.Description, p.OrderedQuantity, Money(p.UnitPrice), Money(p.LineTotal()))
		total += p.LineTotal()
	}

	fmt.Fprintf(&b, "Total: %s\n", Money(total))
	return b.String()
}

// Receipt renders the order confirmation shown to the customer after a
// completed checkout.
func Receipt(o *domain.Order) string {
	return fmt.Sprintf("Order_ID: %d\nOrdered_Date_Time: %s\n%s",
		o.ID, o.OrderedAt.Format("2006-01-02 15:04:05"), ProductList(o.Products))
}

// OrderDetails renders the full order record, including lifecycle timestamps,
// the way the order hub persists and displays it.
func OrderDetails(o *domain.Order) string {
	progressing := ""
	if o.ProgressingAt != nil {
		progressing = o.ProgressingAt.Format("2006-01-02 15:04:05")
	}
	collected := ""
	if o.CollectedAt != nil {
		collected = o.CollectedAt.Format("2006-01-02 15:04:05")
	}

	return fmt.Sprintf("Order ID: %d\nState: %s\nOrderedDateTime: %s\nProgressingDateTime: %s\nCollectedDateTime: %s\nItems:\n%s",
		o.ID, o.State, o.OrderedAt.Format("2006-01-02 15:04:05"), progressing, collected,
		ProductList(o.Products))
}
