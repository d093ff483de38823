package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/order/dto"
	"github.com/pyromart/pyromart-api/pkg/apperr"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithStock(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Guarded decrement: the stock check and the write are one statement, so
	// two concurrent orders can never both take the last pieces.
	decrement := `
        UPDATE products
        SET available_pieces = available_pieces - $1, updated_at = NOW()
        WHERE id = $2 AND available_pieces >= $1
          AND status = 'approved' AND is_deleted = false
    `
	for _, item := range o.Items {
		res, err := tx.ExecContext(ctx, decrement, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.StateConflictf("insufficient stock for product %s", item.Name)
		}
	}

	insertOrder := `
        INSERT INTO orders (
            id, customer_id, seller_id, total_amount, status, payment_status,
            gateway_order_ref, gateway_payment_ref, created_at, updated_at
        )
        VALUES (
            :id, :customer_id, :seller_id, :total_amount, :status, :payment_status,
            :gateway_order_ref, :gateway_payment_ref, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertOrder, o); err != nil {
		return err
	}

	insertItem := `
        INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price)
        VALUES (:id, :order_id, :product_id, :name, :quantity, :unit_price)
    `
	for _, item := range o.Items {
		if _, err := tx.NamedExecContext(ctx, insertItem, item); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
        DELETE FROM cart_items
        WHERE cart_id IN (SELECT id FROM carts WHERE customer_id = $1)
    `, o.CustomerID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	o.Items = []model.OrderItem{}
	err = r.DB.SelectContext(ctx, &o.Items,
		`SELECT * FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	orders := []model.Order{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.SellerID != "" {
		conditions = append(conditions, "seller_id = :seller_id")
		args["seller_id"] = f.SellerID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	query, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?)`, ids)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)

	var items []model.OrderItem
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return err
	}

	byOrder := make(map[string][]model.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
	}
	return nil
}

func (r *PGRepository) UpdateState(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET status = :status,
            payment_status = :payment_status,
            gateway_order_ref = :gateway_order_ref,
            gateway_payment_ref = :gateway_payment_ref,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) MarkPaidWithPayout(ctx context.Context, o *model.Order, payout *model.Payout) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateOrder := `
        UPDATE orders
        SET status = :status,
            payment_status = :payment_status,
            gateway_order_ref = :gateway_order_ref,
            gateway_payment_ref = :gateway_payment_ref,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, updateOrder, o); err != nil {
		return err
	}

	insertPayout := `
        INSERT INTO payouts (
            id, order_id, seller_id, gross_amount, commission, net_amount,
            status, settlement_date, created_at, updated_at
        )
        VALUES (
            :id, :order_id, :seller_id, :gross_amount, :commission, :net_amount,
            :status, :settlement_date, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertPayout, payout); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperr.StateConflictf("payout already exists for order %s", o.ID)
		}
		return err
	}

	return tx.Commit()
}
