package catalog

import (
	"context"

	"github.com/pyromart/pyromart-api/internal/catalog/dto"
	"github.com/pyromart/pyromart-api/internal/model"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, callerID, callerRole, id string) error

	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListVisible(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	ListForSeller(ctx context.Context, sellerID string, page, pageSize int) ([]model.Product, int, error)

	// Admin moderation.
	Approve(ctx context.Context, id string) (*model.Product, error)
	Reject(ctx context.Context, id, reason string) (*model.Product, error)
	Block(ctx context.Context, id string) (*model.Product, error)
}
