package catalogue

import (
	"context"
	"sync"
	"testing"

	"github.com/westgate-labs/happyshop/internal/domain"
)

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore()
	store.Put(domain.Product{ID: "0001", Description: "Apples", UnitPrice: 100, StockQuantity: 50})

	t.Run("returns a copy of a stored product", func(t *testing.T) {
		found, err := store.FindByID(context.Background(), "0001")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found == nil || found.Description != "Apples" {
			t.Fatalf("expected Apples, got %v", found)
		}

		found.StockQuantity = 0
		again, _ := store.FindByID(context.Background(), "0001")
		if again.StockQuantity != 50 {
			t.Error("mutating a FindByID result leaked into the store")
		}
	})

	t.Run("returns nil for an unknown id", func(t *testing.T) {
		found, err := store.FindByID(context.Background(), "9999")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found != nil {
			t.Errorf("expected nil, got %v", found)
		}
	})
}

func TestMemoryStoreCommitPurchase(t *testing.T) {
	t.Run("decrements satisfiable entries and reports the rest", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(domain.Product{ID: "0001", Description: "Apples", StockQuantity: 10})
		store.Put(domain.Product{ID: "0002", Description: "Radio", StockQuantity: 1})

		failed, err := store.CommitPurchase(context.Background(), []domain.Product{
			{ID: "0001", OrderedQuantity: 4},
			{ID: "0002", OrderedQuantity: 3},
		})
		if err != nil {
			t.Fatalf("commit: %v", err)
		}

		if len(failed) != 1 || failed[0].ID != "0002" {
			t.Fatalf("expected only 0002 to fail, got %v", failed)
		}
		if failed[0].StockQuantity != 1 || failed[0].OrderedQuantity != 3 {
			t.Errorf("expected stock 1 requested 3, got stock %d requested %d",
				failed[0].StockQuantity, failed[0].OrderedQuantity)
		}

		apples, _ := store.FindByID(context.Background(), "0001")
		if apples.StockQuantity != 6 {
			t.Errorf("expected apples stock 6, got %d", apples.StockQuantity)
		}
		radio, _ := store.FindByID(context.Background(), "0002")
		if radio.StockQuantity != 1 {
			t.Errorf("failed entry was partially decremented: stock %d", radio.StockQuantity)
		}
	})

	t.Run("unknown id becomes a zero-stock failure", func(t *testing.T) {
		store := NewMemoryStore()

		failed, err := store.CommitPurchase(context.Background(), []domain.Product{
			{ID: "9999", OrderedQuantity: 2},
		})
		if err != nil {
			t.Fatalf("commit: %v", err)
		}

		if len(failed) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(failed))
		}
		if failed[0].Description != "Unknown product" || failed[0].StockQuantity != 0 {
			t.Errorf("expected unknown product with stock 0, got %v", failed[0])
		}
		if failed[0].OrderedQuantity != 2 {
			t.Errorf("expected requested quantity 2, got %d", failed[0].OrderedQuantity)
		}
	})

	t.Run("replacing a line during a commit never resurrects stale stock", func(t *testing.T) {
		const iterations = 200

		for range iterations {
			store := NewMemoryStore()
			store.Put(domain.Product{ID: "0001", Description: "Apples", StockQuantity: 10})

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				store.Put(domain.Product{ID: "0001", Description: "Apples", StockQuantity: 50})
			}()
			go func() {
				defer wg.Done()
				if _, err := store.CommitPurchase(context.Background(), []domain.Product{
					{ID: "0001", OrderedQuantity: 3},
				}); err != nil {
					t.Errorf("commit: %v", err)
				}
			}()
			wg.Wait()

			// Either the replacement landed last (50) or the commit ran on the
			// replaced line (47). A commit writing back over the replacement
			// from the old stock figure would leave 7.
			final, _ := store.FindByID(context.Background(), "0001")
			if final.StockQuantity != 50 && final.StockQuantity != 47 {
				t.Fatalf("lost update: final stock %d", final.StockQuantity)
			}
		}
	})

	t.Run("concurrent commits for the same id never oversell", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(domain.Product{ID: "0001", Description: "Apples", StockQuantity: 100})

		const buyers = 50

		var wg sync.WaitGroup
		results := make([]int, buyers)

		for i := range buyers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				failed, err := store.CommitPurchase(context.Background(), []domain.Product{
					{ID: "0001", OrderedQuantity: 3},
				})
				if err != nil {
					t.Errorf("commit: %v", err)
					return
				}
				if len(failed) == 0 {
					results[i] = 3
				}
			}()
		}
		wg.Wait()

		var sold int
		for _, n := range results {
			sold += n
		}

		remaining, _ := store.FindByID(context.Background(), "0001")
		if remaining.StockQuantity < 0 {
			t.Fatalf("stock overdrawn: %d", remaining.StockQuantity)
		}
		if sold+remaining.StockQuantity != 100 {
			t.Errorf("sold %d + remaining %d != 100", sold, remaining.StockQuantity)
		}
	})
}
