package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pyromart/pyromart-api/internal/catalog"
	"github.com/pyromart/pyromart-api/internal/catalog/dto"
	"github.com/pyromart/pyromart-api/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// isSlugViolation matches the unique index on products.slug.
func isSlugViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "slug")
	}
	return false
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, seller_id, name, slug, description, brand,
            category_main, category_sub, category_main_slug, category_sub_slug,
            images, net_quantity, mrp, selling_price, gst_percent,
            total_boxes, pieces_per_box, available_pieces,
            status, rejection_reason, is_deleted, created_at, updated_at
        )
        VALUES (
            :id, :seller_id, :name, :slug, :description, :brand,
            :category_main, :category_sub, :category_main_slug, :category_sub_slug,
            :images, :net_quantity, :mrp, :selling_price, :gst_percent,
            :total_boxes, :pieces_per_box, :available_pieces,
            :status, :rejection_reason, :is_deleted, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	if isSlugViolation(err) {
		return catalog.ErrSlugConflict
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE slug = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SellerID != "" {
		conditions = append(conditions, "seller_id = :seller_id")
		args["seller_id"] = f.SellerID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.VisibleOnly {
		conditions = append(conditions, "status = 'approved' AND is_deleted = false")
	}
	if f.CategorySlug != "" {
		conditions = append(conditions, "(category_main_slug = :category_slug OR category_sub_slug = :category_slug)")
		args["category_slug"] = f.CategorySlug
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR description ILIKE :search OR brand ILIKE :search OR category_main ILIKE :search OR category_sub ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// Whitelist sortable columns.
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "selling_price"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &products, args)
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            slug = :slug,
            description = :description,
            brand = :brand,
            category_main = :category_main,
            category_sub = :category_sub,
            category_main_slug = :category_main_slug,
            category_sub_slug = :category_sub_slug,
            images = :images,
            net_quantity = :net_quantity,
            mrp = :mrp,
            selling_price = :selling_price,
            gst_percent = :gst_percent,
            total_boxes = :total_boxes,
            pieces_per_box = :pieces_per_box,
            available_pieces = :available_pieces,
            status = :status,
            rejection_reason = :rejection_reason,
            is_deleted = :is_deleted,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	if isSlugViolation(err) {
		return catalog.ErrSlugConflict
	}
	return err
}

func (r *PGRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE products SET is_deleted = true, updated_at = NOW() WHERE id = $1", id)
	return err
}
