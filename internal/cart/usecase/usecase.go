package usecase

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/cart"
	"github.com/pyromart/pyromart-api/internal/cart/dto"
	"github.com/pyromart/pyromart-api/internal/catalog"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type cartUseCase struct {
	repo    cart.Repository
	catalog catalog.Repository
	logger  logger.Logger
}

func NewCartUseCase(repo cart.Repository, catalogRepo catalog.Repository, log logger.Logger) cart.UseCase {
	return &cartUseCase{repo: repo, catalog: catalogRepo, logger: log}
}

func (uc *cartUseCase) AddItem(ctx context.Context, customerID, productID string, quantity int) (*dto.CartView, error) {
	if quantity < 1 {
		return nil, apperr.Validationf("quantity must be at least 1")
	}

	p, err := uc.catalog.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Visible() {
		return nil, apperr.NotFoundf("product not found")
	}

	c, err := uc.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetItem(ctx, c.ID, productID, quantity); err != nil {
		return nil, err
	}

	return uc.view(ctx, c.ID)
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, customerID, productID string) (*dto.CartView, error) {
	c, err := uc.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.RemoveItem(ctx, c.ID, productID); err != nil {
		return nil, err
	}
	return uc.view(ctx, c.ID)
}

func (uc *cartUseCase) GetCart(ctx context.Context, customerID string) (*dto.CartView, error) {
	c, err := uc.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, c.ID)
}

func (uc *cartUseCase) view(ctx context.Context, cartID string) (*dto.CartView, error) {
	items, err := uc.repo.GetItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	view := &dto.CartView{Items: []dto.CartLine{}}
	for _, item := range items {
		p, err := uc.catalog.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}

		line := dto.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			UnitPrice: p.SellingPrice,
			Quantity:  item.Quantity,
			Subtotal:  p.SellingPrice * int64(item.Quantity),
			Available: p.Visible() && p.AvailablePieces >= item.Quantity,
		}
		if len(p.Images) > 0 {
			line.Image = p.Images[0]
		}
		view.Items = append(view.Items, line)
		view.Total += line.Subtotal
	}

	return view, nil
}
