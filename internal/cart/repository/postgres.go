package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pyromart/pyromart-api/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// GetOrCreate relies on the unique index on customer_id: concurrent first
// adds converge on one row via ON CONFLICT DO NOTHING plus a re-read.
func (r *PGRepository) GetOrCreate(ctx context.Context, customerID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.DB.GetContext(ctx, &cart, `SELECT * FROM carts WHERE customer_id = $1 LIMIT 1`, customerID)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	_, err = r.DB.ExecContext(ctx, `
        INSERT INTO carts (id, customer_id, created_at, updated_at)
        VALUES ($1, $2, $3, $3)
        ON CONFLICT (customer_id) DO NOTHING
    `, uuid.New().String(), customerID, now)
	if err != nil {
		return nil, err
	}

	err = r.DB.GetContext(ctx, &cart, `SELECT * FROM carts WHERE customer_id = $1 LIMIT 1`, customerID)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SetItem replaces the quantity when the product is already in the cart.
func (r *PGRepository) SetItem(ctx context.Context, cartID, productID string, quantity int) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO cart_items (id, cart_id, product_id, quantity, added_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (cart_id, product_id)
        DO UPDATE SET quantity = EXCLUDED.quantity
    `, uuid.New().String(), cartID, productID, quantity, time.Now())
	return err
}

func (r *PGRepository) RemoveItem(ctx context.Context, cartID, productID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	return err
}

func (r *PGRepository) GetItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM cart_items WHERE cart_id = $1 ORDER BY added_at`, cartID)
	return items, err
}
