// Package checkout sequences a trolley through stock validation, the
// authoritative stock commit, and order creation.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/westgate-labs/happyshop/internal/catalogue"
	"github.com/westgate-labs/happyshop/internal/domain"
	"github.com/westgate-labs/happyshop/internal/format"
	"github.com/westgate-labs/happyshop/internal/trolley"
)

// OrderStore creates a persisted order from an already-committed product list,
// assigning a fresh order id and the ordered timestamp.
type OrderStore interface {
	Create(ctx context.Context, products []domain.Product) (*domain.Order, error)
}

// Sink receives the rendered trolley, a status message, and a receipt after
// every checkout pass. The receipt is empty unless the checkout completed.
type Sink interface {
	Update(trolleyText, statusText, receiptText string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(trolleyText, statusText, receiptText string)

func (f SinkFunc) Update(trolleyText, statusText, receiptText string) {
	f(trolleyText, statusText, receiptText)
}

// State is the terminal state of one checkout pass.
type State string

const (
	StateEmpty            State = "empty"
	StateInvalidQuantity  State = "invalid_quantity"
	StateValidationFailed State = "validation_failed"
	StateCommitFailed     State = "commit_failed"
	StateCompleted        State = "completed"
	StateError            State = "error"
)

// Orchestrator runs the two-phase checkout: an advisory read-only validation
// for fast feedback, then the authoritative commit. Stock may change between
// the two; the commit re-checks and the orchestrator reconciles the trolley on
// either failure. No order is created before a successful commit, and the
// trolley is only cleared once the order exists.
type Orchestrator struct {
	catalogue catalogue.Store
	orders    OrderStore
	logger    *slog.Logger
}

func NewOrchestrator(store catalogue.Store, orders OrderStore, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalogue: store,
		orders:    orders,
		logger:    logger,
	}
}

// Checkout runs one validate->commit->order pass over t, reporting through sink.
// Domain failures (empty trolley, invalid quantities, shortfalls, the
// validation/commit race) are handled here: the trolley is reconciled, the
// sink told, and the terminal state returned with no order. Only
// backing-store failures are returned as errors, and the trolley is untouched
// unless the commit already happened.
func (o *Orchestrator) Checkout(ctx context.Context, t *trolley.Trolley, sink Sink) (State, *domain.Order, error) {
	if t.IsEmpty() {
		sink.Update("Your trolley is empty", "Your trolley is empty", "")
		return StateEmpty, nil, nil
	}

	grouped := t.Grouped()

	// Invalid quantities block the checkout but stay in the trolley for the
	// customer to fix.
	for _, p := range grouped {
		if p.OrderedQuantity <= 0 {
			err := &domain.InvalidQuantityError{ProductID: p.ID, Quantity: p.OrderedQuantity}
			o.logger.Info("checkout blocked: invalid quantity", "product_id", p.ID, "quantity", p.OrderedQuantity)
			sink.Update(format.ProductList(t.Items()), "Checkout blocked: "+err.Error(), "")
			return StateInvalidQuantity, nil, nil
		}
	}

	insufficient, err := o.validate(ctx, grouped)
	if err != nil {
		return StateError, nil, fmt.Errorf("validate stock: %w", err)
	}
	if len(insufficient) > 0 {
		o.reconcile(t, insufficient)
		o.logger.Info("checkout blocked: insufficient stock", "failed_lines", len(insufficient))
		sink.Update(format.ProductList(t.Items()),
			"Checkout failed due to insufficient stock for the following products:\n"+shortfallList(insufficient), "")
		return StateValidationFailed, nil, nil
	}

	failed, err := o.catalogue.CommitPurchase(ctx, grouped)
	if err != nil {
		return StateError, nil, fmt.Errorf("commit purchase: %w", err)
	}
	if len(failed) > 0 {
		// Stock moved between validation and commit. Same reconciliation,
		// different framing.
		o.reconcile(t, failed)
		o.logger.Info("checkout failed: stock changed during checkout", "failed_lines", len(failed))
		sink.Update(format.ProductList(t.Items()),
			"Checkout failed because stock changed during checkout:\n"+shortfallList(failed), "")
		return StateCommitFailed, nil, nil
	}

	order, err := o.orders.Create(ctx, t.Items())
	if err != nil {
		return StateError, nil, fmt.Errorf("create order: %w", err)
	}

	t.Clear()
	o.logger.Info("checkout completed", "order_id", order.ID, "lines", len(order.Products))
	sink.Update("", fmt.Sprintf("Order %d placed", order.ID), format.Receipt(order))

	return StateCompleted, order, nil
}

// validate is the advisory pre-check: it reads authoritative stock without
// mutating it and returns the entries whose requested quantity exceeds
// availability. Unknown products count as zero-stock.
func (o *Orchestrator) validate(ctx context.Context, grouped []domain.Product) ([]domain.Product, error) {
	var insufficient []domain.Product

	for _, requested := range grouped {
		stocked, err := o.catalogue.FindByID(ctx, requested.ID)
		if err != nil {
			return nil, err
		}

		if stocked == nil {
			insufficient = append(insufficient, domain.Product{
				ID:              requested.ID,
				Description:     "Unknown product",
				ImageName:       requested.ImageName,
				UnitPrice:       requested.UnitPrice,
				StockQuantity:   0,
				OrderedQuantity: requested.OrderedQuantity,
			})
			continue
		}

		if stocked.StockQuantity < requested.OrderedQuantity {
			shortfall := *stocked
			shortfall.OrderedQuantity = requested.OrderedQuantity
			insufficient = append(insufficient, shortfall)
		}
	}

	return insufficient, nil
}

// reconcile drops every trolley line matching a failed entry. Whole lines go,
// not just the shortfall quantity.
func (o *Orchestrator) reconcile(t *trolley.Trolley, failed []domain.Product) {
	for _, p := range failed {
		t.RemoveAll(p.ID)
	}
}

func shortfallList(failed []domain.Product) string {
	var b strings.Builder
	for _, p := range failed {
		fmt.Fprintf(&b, "• %s, %s (Only %d available, %d requested)\n",
			p.ID, p.Description, p.StockQuantity, p.OrderedQuantity)
	}
	return b.String()
}
