package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/pkg/apperr"
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

func sampleOrder() *model.Order {
	now := time.Now()
	return &model.Order{
		BaseModel:     model.BaseModel{ID: "o1", CreatedAt: now, UpdatedAt: now},
		CustomerID:    "cust-1",
		SellerID:      "seller-1",
		TotalAmount:   40000,
		Status:        model.OrderStatusPendingPayment,
		PaymentStatus: model.PaymentStatusPending,
		Items: []model.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: "p1", Name: "Sky Shot", Quantity: 2, UnitPrice: 20000},
		},
	}
}

func TestCreateWithStock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).
		WithArgs(2, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items`).
		WithArgs("cust-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.CreateWithStock(context.Background(), sampleOrder()); err != nil {
		t.Fatalf("CreateWithStock: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateWithStock_InsufficientStockRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Zero rows affected means the guard refused the decrement. Everything
	// rolls back; the order insert never runs.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).
		WithArgs(2, "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateWithStock(context.Background(), sampleOrder())
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.KindOf(err) != apperr.KindStateConflict {
		t.Fatalf("kind = %v, want state conflict", apperr.KindOf(err))
	}
	if apperr.Message(err) != "insufficient stock for product Sky Shot" {
		t.Fatalf("message = %q", apperr.Message(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFindByID_NoRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM orders`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	o, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if o != nil {
		t.Fatalf("expected nil order, got %+v", o)
	}
}
