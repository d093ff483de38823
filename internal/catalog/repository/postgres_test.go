package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pyromart/pyromart-api/internal/catalog"
	"github.com/pyromart/pyromart-api/internal/model"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return NewPGRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func sampleProduct() *model.Product {
	now := time.Now()
	return &model.Product{
		BaseModel:        model.BaseModel{ID: "p1", CreatedAt: now, UpdatedAt: now},
		SellerID:         "seller-1",
		Name:             "Sky Shot Deluxe",
		Slug:             "sky-shot-deluxe-1234",
		CategoryMain:     "Aerial Fireworks",
		CategoryMainSlug: "aerial-fireworks",
		Images:           []string{"a.jpg"},
		NetQuantity:      "1 box",
		SellingPrice:     40000,
		TotalBoxes:       10,
		PiecesPerBox:     24,
		AvailablePieces:  240,
		Status:           model.ProductStatusPending,
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO products`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), sampleProduct()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreate_SlugViolationMapped(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO products`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "products_slug_key"})

	err := repo.Create(context.Background(), sampleProduct())
	if !errors.Is(err, catalog.ErrSlugConflict) {
		t.Fatalf("err = %v, want ErrSlugConflict", err)
	}
}

func TestCreate_OtherUniqueViolationPassesThrough(t *testing.T) {
	repo, mock := newMockRepo(t)

	pqErr := &pq.Error{Code: "23505", Constraint: "products_pkey"}
	mock.ExpectExec(`INSERT INTO products`).WillReturnError(pqErr)

	err := repo.Create(context.Background(), sampleProduct())
	if errors.Is(err, catalog.ErrSlugConflict) {
		t.Fatal("pkey violation must not map to slug conflict")
	}
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFindByID_NoRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM products`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil, got %+v", p)
	}
}

func TestSoftDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE products SET is_deleted = true`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDelete(context.Background(), "p1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
