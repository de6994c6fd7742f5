package trolley

import (
	"sort"

	"github.com/westgate-labs/happyshop/internal/domain"
)

// Organise returns a copy of items free of duplicate identifiers and sorted
// ascending by product id. Quantities of repeated identifiers are summed into
// the first-seen entry; entries with a blank id are skipped. Organising an
// already-organised list returns an equal list.
func Organise(items []domain.Product) []domain.Product {
	organised := make([]domain.Product, 0, len(items))

	for _, p := range items {
		if p.ID == "" {
			continue
		}
		if i := indexByID(organised, p.ID); i >= 0 {
			organised[i].OrderedQuantity += p.OrderedQuantity
		} else {
			organised = append(organised, p)
		}
	}

	sort.Slice(organised, func(i, j int) bool {
		return organised[i].Less(organised[j])
	})

	return organised
}

func indexByID(items []domain.Product, id string) int {
	for i, p := range items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Trolley is the in-progress, uncommitted set of products one customer intends
// to buy. It is owned by a single checkout session and never shared. The line
// items are kept deduplicated and sorted by product id at all times.
type Trolley struct {
	items []domain.Product
}

func New() *Trolley {
	return &Trolley{}
}

// Add merges p into an existing line with the same id, or appends a new line,
// keeping the trolley sorted. Products with a blank id are ignored.
func (t *Trolley) Add(p domain.Product) {
	if p.ID == "" {
		return
	}

	if i := indexByID(t.items, p.ID); i >= 0 {
		t.items[i].OrderedQuantity += p.OrderedQuantity
		return
	}

	t.items = append(t.items, p)
	sort.Slice(t.items, func(i, j int) bool {
		return t.items[i].Less(t.items[j])
	})
}

// RemoveAll drops every line matching id. Whole lines are removed, never
// partial quantities.
func (t *Trolley) RemoveAll(id string) {
	kept := t.items[:0]
	for _, p := range t.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	t.items = kept
}

// Items returns a copy of the trolley's lines.
func (t *Trolley) Items() []domain.Product {
	items := make([]domain.Product, len(t.items))
	copy(items, t.items)
	return items
}

// Grouped returns the trolley reduced to one entry per product id with summed
// quantities, the unit of stock validation and commit.
func (t *Trolley) Grouped() []domain.Product {
	return Organise(t.items)
}

func (t *Trolley) Clear() {
	t.items = nil
}

func (t *Trolley) Len() int {
	return len(t.items)
}

func (t *Trolley) IsEmpty() bool {
	return len(t.items) == 0
}
