package orders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/westgate-labs/happyshop/internal/domain"
	"github.com/westgate-labs/happyshop/internal/trolley"
)

// ErrEmptyOrder is returned when order creation is attempted with no products.
var ErrEmptyOrder = errors.New("cannot create an order with no products")

// ErrStateChanged is returned when an order's state moved between the read and
// the write of an advance, losing the transition to a concurrent caller.
var ErrStateChanged = errors.New("order state changed during advance")

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order in state ordered with a fresh integer id. The
// product list is organised before it is stored, so later trolley mutation
// cannot affect the order.
func (r *OrderRepository) Create(ctx context.Context, products []domain.Product) (*domain.Order, error) {
	organised := trolley.Organise(products)
	if len(organised) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	order := &domain.Order{
		State:     domain.OrderStateOrdered,
		OrderedAt: time.Now().UTC(),
		Products:  organised,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (state, ordered_at)
		VALUES ($1, $2)
		RETURNING order_id
	`, order.State, order.OrderedAt).Scan(&order.ID)
	if err != nil {
		return nil, err
	}

	for _, p := range organised {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, description, image_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, p.ID, p.Description, p.ImageName, p.UnitPrice, p.OrderedQuantity)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT order_id, state, ordered_at, progressing_at, collected_at
		FROM orders
		WHERE order_id = $1
	`, id).Scan(&order.ID, &order.State, &order.OrderedAt, &order.ProgressingAt, &order.CollectedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, description, image_name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Description, &p.ImageName, &p.UnitPrice, &p.OrderedQuantity); err != nil {
			return nil, err
		}
		order.Products = append(order.Products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, state, ordered_at, progressing_at, collected_at
		FROM orders
		ORDER BY order_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int]*domain.Order)
	var orderIDs []int

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.State, &order.OrderedAt, &order.ProgressingAt, &order.CollectedAt); err != nil {
			return nil, err
		}
		order.Products = []domain.Product{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, description, image_name, unit_price, quantity
		FROM order_items
		ORDER BY order_id, product_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID int
		var p domain.Product
		if err := itemRows.Scan(&orderID, &p.ID, &p.Description, &p.ImageName, &p.UnitPrice, &p.OrderedQuantity); err != nil {
			return nil, err
		}
		if order, ok := orderMap[orderID]; ok {
			order.Products = append(order.Products, p)
		}
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

// Advance applies the next lifecycle transition to an order and persists the
// new state plus the transition's timestamp. Returns (nil, nil) when the order
// does not exist; the domain transition error when the lifecycle is exhausted.
// The write is guarded on the state the transition was computed from, so a
// concurrent advance can never overwrite a later state with an earlier one;
// the loser gets ErrStateChanged.
func (r *OrderRepository) Advance(ctx context.Context, id int) (*domain.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	previous := order.State
	if err := order.Advance(time.Now().UTC()); err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET state = $1, progressing_at = $2, collected_at = $3
		WHERE order_id = $4 AND state = $5
	`, order.State, order.ProgressingAt, order.CollectedAt, order.ID, previous)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrStateChanged
	}

	return order, nil
}
