package domain

// Product is one orderable catalogue line. StockQuantity is the catalogue's
// count at the point the value was read; OrderedQuantity is the quantity
// requested in a trolley or order context and is zero everywhere else.
//
// Products are passed by value at every boundary so that mutating one holder's
// copy never leaks into another's.
type Product struct {
	ID              string `json:"product_id"`
	Description     string `json:"description"`
	ImageName       string `json:"image_name"`
	UnitPrice       int64  `json:"unit_price"` // pence
	StockQuantity   int    `json:"stock_quantity"`
	OrderedQuantity int    `json:"ordered_quantity"`
}

func (p Product) LineTotal() int64 {
	return p.UnitPrice * int64(p.OrderedQuantity)
}

// Less orders products by id, lexicographically. Every displayed or persisted
// product list is sorted with it.
func (p Product) Less(other Product) bool {
	return p.ID < other.ID
}
