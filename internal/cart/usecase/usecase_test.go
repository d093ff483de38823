package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyromart/pyromart-api/internal/cart/dto"
	"github.com/pyromart/pyromart-api/internal/catalog"
	catalogdto "github.com/pyromart/pyromart-api/internal/catalog/dto"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type fakeCartRepo struct {
	carts map[string]*model.Cart        // customerID -> cart
	items map[string]map[string]int     // cartID -> productID -> quantity
	next  int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: make(map[string]*model.Cart),
		items: make(map[string]map[string]int),
	}
}

func (r *fakeCartRepo) GetOrCreate(_ context.Context, customerID string) (*model.Cart, error) {
	if c, ok := r.carts[customerID]; ok {
		return c, nil
	}
	r.next++
	c := &model.Cart{ID: string(rune('a' + r.next)), CustomerID: customerID}
	r.carts[customerID] = c
	r.items[c.ID] = make(map[string]int)
	return c, nil
}

func (r *fakeCartRepo) SetItem(_ context.Context, cartID, productID string, quantity int) error {
	r.items[cartID][productID] = quantity
	return nil
}

func (r *fakeCartRepo) RemoveItem(_ context.Context, cartID, productID string) error {
	delete(r.items[cartID], productID)
	return nil
}

func (r *fakeCartRepo) GetItems(_ context.Context, cartID string) ([]model.CartItem, error) {
	var out []model.CartItem
	for pid, qty := range r.items[cartID] {
		out = append(out, model.CartItem{CartID: cartID, ProductID: pid, Quantity: qty})
	}
	return out, nil
}

type fakeCatalogRepo struct {
	products map[string]*model.Product
}

func (r *fakeCatalogRepo) Create(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakeCatalogRepo) FindBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) FindAll(_ context.Context, _ *catalogdto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeCatalogRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) SoftDelete(_ context.Context, id string) error {
	if p, ok := r.products[id]; ok {
		p.IsDeleted = true
	}
	return nil
}

var _ catalog.Repository = (*fakeCatalogRepo)(nil)

func approvedProduct(id string, price int64, stock int) *model.Product {
	return &model.Product{
		BaseModel:       model.BaseModel{ID: id},
		SellerID:        "seller-1",
		Name:            "Sparkler " + id,
		Slug:            "sparkler-" + id,
		SellingPrice:    price,
		AvailablePieces: stock,
		Status:          model.ProductStatusApproved,
	}
}

func setup() (*fakeCartRepo, *fakeCatalogRepo, *cartUseCase) {
	carts := newFakeCartRepo()
	products := &fakeCatalogRepo{products: make(map[string]*model.Product)}
	uc := NewCartUseCase(carts, products, logger.NewNop()).(*cartUseCase)
	return carts, products, uc
}

func TestAddItemReplacesQuantity(t *testing.T) {
	_, products, uc := setup()
	products.products["p1"] = approvedProduct("p1", 10000, 50)

	_, err := uc.AddItem(context.Background(), "cust-1", "p1", 2)
	require.NoError(t, err)

	// A second add with quantity 5 sets the line to 5, not 7.
	view, err := uc.AddItem(context.Background(), "cust-1", "p1", 5)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, int64(50000), view.Total)
}

func TestAddItemRejectsHiddenProduct(t *testing.T) {
	_, products, uc := setup()
	p := approvedProduct("p1", 10000, 50)
	p.Status = model.ProductStatusPending
	products.products["p1"] = p

	_, err := uc.AddItem(context.Background(), "cust-1", "p1", 1)
	require.Error(t, err)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	_, _, uc := setup()
	_, err := uc.AddItem(context.Background(), "cust-1", "p1", 0)
	require.Error(t, err)
}

func TestRemoveItemIdempotent(t *testing.T) {
	_, products, uc := setup()
	products.products["p1"] = approvedProduct("p1", 10000, 50)

	_, err := uc.AddItem(context.Background(), "cust-1", "p1", 2)
	require.NoError(t, err)

	view, err := uc.RemoveItem(context.Background(), "cust-1", "p1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// Removing again is a no-op, not an error.
	view, err = uc.RemoveItem(context.Background(), "cust-1", "p1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestGetCartFlagsUnavailableLines(t *testing.T) {
	_, products, uc := setup()
	products.products["p1"] = approvedProduct("p1", 10000, 50)

	_, err := uc.AddItem(context.Background(), "cust-1", "p1", 10)
	require.NoError(t, err)

	// Stock drops below the requested quantity after the add.
	products.products["p1"].AvailablePieces = 3

	view, err := uc.GetCart(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].Available)
}

func TestGetCartEmpty(t *testing.T) {
	_, _, uc := setup()
	view, err := uc.GetCart(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, &dto.CartView{Items: []dto.CartLine{}}, view)
}
