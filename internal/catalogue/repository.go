package catalogue

import (
	"context"
	"database/sql"

	"github.com/westgate-labs/happyshop/internal/domain"
)

// CatalogueRepository is the Postgres-backed Store. The guarded single-statement
// UPDATE in CommitPurchase makes each per-entry decrement atomic with respect to
// concurrent commits for the same product id.
type CatalogueRepository struct {
	db *sql.DB
}

func NewCatalogueRepository(db *sql.DB) *CatalogueRepository {
	return &CatalogueRepository{db: db}
}

func (r *CatalogueRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT product_id, description, image_name, unit_price, stock_quantity
		FROM products
		WHERE product_id = $1
	`, id).Scan(&product.ID, &product.Description, &product.ImageName, &product.UnitPrice, &product.StockQuantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return product, nil
}

func (r *CatalogueRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, description, image_name, unit_price, stock_quantity
		FROM products
		ORDER BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Description, &p.ImageName, &p.UnitPrice, &p.StockQuantity); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// CommitPurchase decrements stock for every grouped entry that is still
// satisfiable. Entries the catalogue cannot satisfy are returned with their
// current authoritative stock; no decrement happens for those entries, and
// entries that can be satisfied are committed regardless of other failures.
func (r *CatalogueRepository) CommitPurchase(ctx context.Context, grouped []domain.Product) ([]domain.Product, error) {
	var failed []domain.Product

	for _, requested := range grouped {
		if requested.ID == "" || requested.OrderedQuantity <= 0 {
			continue
		}

		result, err := r.db.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $2
			WHERE product_id = $1 AND stock_quantity >= $2
		`, requested.ID, requested.OrderedQuantity)
		if err != nil {
			return nil, err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rowsAffected > 0 {
			continue
		}

		current, err := r.FindByID(ctx, requested.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			failed = append(failed, unknownProduct(requested))
			continue
		}

		shortfall := *current
		shortfall.OrderedQuantity = requested.OrderedQuantity
		failed = append(failed, shortfall)
	}

	return failed, nil
}

// Insert adds a new catalogue line.
func (r *CatalogueRepository) Insert(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (product_id, description, image_name, unit_price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Description, p.ImageName, p.UnitPrice, p.StockQuantity)
	return err
}

// Update replaces the description, image, price and stock of an existing line.
func (r *CatalogueRepository) Update(ctx context.Context, p domain.Product) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET description = $2, image_name = $3, unit_price = $4, stock_quantity = $5
		WHERE product_id = $1
	`, p.ID, p.Description, p.ImageName, p.UnitPrice, p.StockQuantity)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *CatalogueRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	return err
}

// Restock adds quantity units back to a line's stock and returns the updated
// record. Returns sql.ErrNoRows when the product id is not in the catalogue.
func (r *CatalogueRepository) Restock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2
		WHERE product_id = $1
		RETURNING product_id, description, image_name, unit_price, stock_quantity
	`, id, quantity).Scan(&p.ID, &p.Description, &p.ImageName, &p.UnitPrice, &p.StockQuantity)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// unknownProduct synthesizes the zero-stock record reported when a requested
// product id is not in the catalogue.
func unknownProduct(requested domain.Product) domain.Product {
	return domain.Product{
		ID:              requested.ID,
		Description:     "Unknown product",
		ImageName:       requested.ImageName,
		UnitPrice:       requested.UnitPrice,
		StockQuantity:   0,
		OrderedQuantity: requested.OrderedQuantity,
	}
}
