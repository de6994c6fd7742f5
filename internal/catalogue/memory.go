package catalogue

import (
	"context"
	"sync"

	"github.com/westgate-labs/happyshop/internal/domain"
)

// MemoryStore is an in-process Store with per-product-id locking around the
// read-modify-write in CommitPurchase. It backs unit tests and demo runs that
// have no database.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
	locks    map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]domain.Product),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Put inserts or replaces a catalogue line. The stored copy carries no ordered
// quantity. It holds the line's commit lock so a concurrent CommitPurchase
// cannot write back a stale stock figure over the replacement.
func (s *MemoryStore) Put(p domain.Product) {
	lock := s.keyLock(p.ID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	p.OrderedQuantity = 0
	s.products[p.ID] = p
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryStore) CommitPurchase(_ context.Context, grouped []domain.Product) ([]domain.Product, error) {
	var failed []domain.Product

	for _, requested := range grouped {
		if requested.ID == "" || requested.OrderedQuantity <= 0 {
			continue
		}

		lock := s.keyLock(requested.ID)
		lock.Lock()

		s.mu.Lock()
		current, ok := s.products[requested.ID]
		s.mu.Unlock()

		if !ok {
			lock.Unlock()
			failed = append(failed, unknownProduct(requested))
			continue
		}

		if current.StockQuantity < requested.OrderedQuantity {
			lock.Unlock()
			shortfall := current
			shortfall.OrderedQuantity = requested.OrderedQuantity
			failed = append(failed, shortfall)
			continue
		}

		current.StockQuantity -= requested.OrderedQuantity
		s.mu.Lock()
		s.products[requested.ID] = current
		s.mu.Unlock()

		lock.Unlock()
	}

	return failed, nil
}

// keyLock returns the mutex serializing commits for one product id.
func (s *MemoryStore) keyLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
