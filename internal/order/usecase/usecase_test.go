package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdto "github.com/pyromart/pyromart-api/internal/catalog/dto"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/notification"
	"github.com/pyromart/pyromart-api/internal/order/dto"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

// fakeOrderRepo mirrors the database contract: CreateWithStock applies the
// guarded decrements atomically under one lock, exactly like the real
// transaction does under row locks.
type fakeOrderRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
	orders   map[string]*model.Order
	carts    *fakeCartRepo
}

func (r *fakeOrderRepo) CreateWithStock(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Conditional decrement per line. Any shortfall rolls the whole set back.
	decremented := make(map[string]int)
	for _, item := range o.Items {
		p := r.products[item.ProductID]
		if p == nil || !p.Visible() || p.AvailablePieces < item.Quantity {
			for pid, qty := range decremented {
				r.products[pid].AvailablePieces += qty
			}
			return apperr.StateConflictf("insufficient stock for product %s", item.Name)
		}
		p.AvailablePieces -= item.Quantity
		decremented[item.ProductID] = item.Quantity
	}

	cp := *o
	r.orders[o.ID] = &cp
	r.carts.clear(o.CustomerID)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if filters.CustomerID != "" && o.CustomerID != filters.CustomerID {
			continue
		}
		if filters.Status != "" && string(o.Status) != filters.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateState(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) MarkPaidWithPayout(_ context.Context, o *model.Order, _ *model.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items map[string][]model.CartItem // customerID -> lines
}

func (r *fakeCartRepo) GetOrCreate(_ context.Context, customerID string) (*model.Cart, error) {
	return &model.Cart{ID: "cart-" + customerID, CustomerID: customerID}, nil
}

func (r *fakeCartRepo) SetItem(_ context.Context, _, _ string, _ int) error { return nil }

func (r *fakeCartRepo) RemoveItem(_ context.Context, _, _ string) error { return nil }

func (r *fakeCartRepo) GetItems(_ context.Context, cartID string) ([]model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customerID := cartID[len("cart-"):]
	return r.items[customerID], nil
}

func (r *fakeCartRepo) clear(customerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, customerID)
}

type fakeCatalogRepo struct {
	products map[string]*model.Product
}

func (r *fakeCatalogRepo) Create(_ context.Context, p *model.Product) error   { return nil }
func (r *fakeCatalogRepo) Update(_ context.Context, p *model.Product) error   { return nil }
func (r *fakeCatalogRepo) SoftDelete(_ context.Context, id string) error      { return nil }
func (r *fakeCatalogRepo) FindBySlug(_ context.Context, _ string) (*model.Product, error) {
	return nil, nil
}
func (r *fakeCatalogRepo) FindAll(_ context.Context, _ *catalogdto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}
func (r *fakeCatalogRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

type fixture struct {
	repo     *fakeOrderRepo
	carts    *fakeCartRepo
	products map[string]*model.Product
	uc       *orderUseCase
}

func newFixture() *fixture {
	products := make(map[string]*model.Product)
	carts := &fakeCartRepo{items: make(map[string][]model.CartItem)}
	repo := &fakeOrderRepo{
		products: products,
		orders:   make(map[string]*model.Order),
		carts:    carts,
	}
	catalogRepo := &fakeCatalogRepo{products: products}
	uc := NewOrderUseCase(repo, carts, catalogRepo, notification.Noop{}, logger.NewNop()).(*orderUseCase)
	return &fixture{repo: repo, carts: carts, products: products, uc: uc}
}

func (f *fixture) addProduct(id, sellerID string, price int64, stock int) {
	f.products[id] = &model.Product{
		BaseModel:       model.BaseModel{ID: id},
		SellerID:        sellerID,
		Name:            "Product " + id,
		SellingPrice:    price,
		AvailablePieces: stock,
		Status:          model.ProductStatusApproved,
	}
}

func (f *fixture) fillCart(customerID string, lines ...model.CartItem) {
	f.carts.items[customerID] = lines
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 100)
	f.addProduct("p2", "seller-1", 5000, 100)
	f.fillCart("cust-1",
		model.CartItem{ProductID: "p1", Quantity: 2},
		model.CartItem{ProductID: "p2", Quantity: 4},
	)

	o, err := f.uc.Create(context.Background(), "cust-1")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPendingPayment, o.Status)
	assert.Equal(t, model.PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, "seller-1", o.SellerID)
	assert.Equal(t, int64(40000), o.TotalAmount)
	assert.Len(t, o.Items, 2)

	// Stock committed, cart cleared.
	assert.Equal(t, 98, f.products["p1"].AvailablePieces)
	assert.Equal(t, 96, f.products["p2"].AvailablePieces)
	assert.Empty(t, f.carts.items["cust-1"])
}

func TestCreateOrder_SnapshotSurvivesPriceChange(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 100)
	f.fillCart("cust-1", model.CartItem{ProductID: "p1", Quantity: 2})

	o, err := f.uc.Create(context.Background(), "cust-1")
	require.NoError(t, err)

	f.products["p1"].SellingPrice = 99999
	f.products["p1"].Name = "Renamed"

	stored, err := f.repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), stored.Items[0].UnitPrice)
	assert.Equal(t, "Product p1", stored.Items[0].Name)
	assert.Equal(t, int64(20000), stored.TotalAmount)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), "cust-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
}

func TestCreateOrder_MixedSellersRejected(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 100)
	f.addProduct("p2", "seller-2", 5000, 100)
	f.fillCart("cust-1",
		model.CartItem{ProductID: "p1", Quantity: 1},
		model.CartItem{ProductID: "p2", Quantity: 1},
	)

	_, err := f.uc.Create(context.Background(), "cust-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
	// Nothing was committed.
	assert.Equal(t, 100, f.products["p1"].AvailablePieces)
	assert.Equal(t, 100, f.products["p2"].AvailablePieces)
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 100)
	f.addProduct("p2", "seller-1", 5000, 1)
	f.fillCart("cust-1",
		model.CartItem{ProductID: "p1", Quantity: 2},
		model.CartItem{ProductID: "p2", Quantity: 5},
	)

	_, err := f.uc.Create(context.Background(), "cust-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))

	// The p1 decrement must have rolled back with the failed p2 decrement.
	assert.Equal(t, 100, f.products["p1"].AvailablePieces)
	assert.Equal(t, 1, f.products["p2"].AvailablePieces)
	// Cart kept so the customer can fix it.
	assert.Len(t, f.carts.items["cust-1"], 2)
}

func TestCreateOrder_ConcurrentLastUnit(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 1)
	f.fillCart("cust-1", model.CartItem{ProductID: "p1", Quantity: 1})
	f.fillCart("cust-2", model.CartItem{ProductID: "p1", Quantity: 1})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, cust := range []string{"cust-1", "cust-2"} {
		wg.Add(1)
		go func(i int, cust string) {
			defer wg.Done()
			_, errs[i] = f.uc.Create(context.Background(), cust)
		}(i, cust)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one order may win the last unit")
	assert.Equal(t, 0, f.products["p1"].AvailablePieces)
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 10)
	f.fillCart("cust-1", model.CartItem{ProductID: "p1", Quantity: 1})
	o, err := f.uc.Create(context.Background(), "cust-1")
	require.NoError(t, err)

	o.Status = model.OrderStatusPaid
	require.NoError(t, f.repo.UpdateState(context.Background(), o))

	// Forward moves are fine, skipping intermediate states included.
	updated, err := f.uc.UpdateStatus(context.Background(), o.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	// Backwards is refused.
	_, err = f.uc.UpdateStatus(context.Background(), o.ID, model.OrderStatusPacked)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))

	// Cancel is not reachable through UpdateStatus.
	_, err = f.uc.UpdateStatus(context.Background(), o.ID, model.OrderStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCancel(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 10)
	f.fillCart("cust-1", model.CartItem{ProductID: "p1", Quantity: 2})
	o, err := f.uc.Create(context.Background(), "cust-1")
	require.NoError(t, err)

	cancelled, err := f.uc.Cancel(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, model.PaymentStatusFailed, cancelled.PaymentStatus)

	// Committed stock stays committed.
	assert.Equal(t, 8, f.products["p1"].AvailablePieces)

	// Terminal orders cannot be cancelled again.
	_, err = f.uc.Cancel(context.Background(), o.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
}

func TestGetForCustomer_Ownership(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "seller-1", 10000, 10)
	f.fillCart("cust-1", model.CartItem{ProductID: "p1", Quantity: 1})
	o, err := f.uc.Create(context.Background(), "cust-1")
	require.NoError(t, err)

	_, err = f.uc.GetForCustomer(context.Background(), "cust-2", o.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	got, err := f.uc.GetForCustomer(context.Background(), "cust-1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestListAdmin_RejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	_, _, err := f.uc.ListAdmin(context.Background(), "bogus", 1, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
