package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/model"
)

const productColumns = `id, name, quantity, type, storage_location, created_at`

// ListProducts returns all products.
func ListProducts(ctx context.Context, db *sqlx.DB) ([]model.Product, error) {
	products := []model.Product{}
	err := db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sqlx.DB, id int64) (*model.Product, error) {
	var p model.Product
	err := db.GetContext(ctx, &p, db.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return &p, nil
}

// CreateProduct inserts a product. Type and storage location are optional.
func CreateProduct(ctx context.Context, db *sqlx.DB, name string, quantity int, typ, storageLocation *string) (*model.Product, error) {
	id, err := insertID(ctx, db,
		`INSERT INTO products (name, quantity, type, storage_location) VALUES (?, ?, ?, ?)`,
		name, quantity, typ, storageLocation,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return GetProduct(ctx, db, id)
}

// SetProductQuantity overwrites a product's quantity. It is an absolute set,
// not a delta.
func SetProductQuantity(ctx context.Context, db *sqlx.DB, id int64, quantity int) error {
	ok, err := exists(ctx, db, "products", id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	_, err = db.ExecContext(ctx, db.Rebind(`UPDATE products SET quantity = ? WHERE id = ?`), quantity, id)
	if err != nil {
		return fmt.Errorf("updating product quantity: %w", err)
	}
	return nil
}

// DeleteProduct removes a product.
func DeleteProduct(ctx context.Context, db *sqlx.DB, id int64) error {
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
