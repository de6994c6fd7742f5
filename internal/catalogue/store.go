// Package catalogue provides access to the authoritative product stock.
package catalogue

import (
	"context"

	"github.com/westgate-labs/happyshop/internal/domain"
)

// Store is the checkout pipeline's view of authoritative stock.
//
// FindByID is a read; it returns (nil, nil) when the product does not exist.
// CommitPurchase is the single point of stock mutation: for every grouped
// entry it atomically decrements stock by the requested quantity, or, if
// stock is insufficient at commit time, performs no decrement for that entry
// and reports it in the returned slice with the current authoritative stock.
// The check and the decrement must be serialized per product id against
// concurrent commits, otherwise two checkouts can both pass the sufficiency
// check and overdraw stock.
type Store interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	CommitPurchase(ctx context.Context, grouped []domain.Product) ([]domain.Product, error)
}
