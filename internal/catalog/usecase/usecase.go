package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/internal/catalog"
	"github.com/pyromart/pyromart-api/internal/catalog/dto"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/notification"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/cache"
	"github.com/pyromart/pyromart-api/pkg/logger"
	"github.com/pyromart/pyromart-api/pkg/search"
)

const productsIndex = "products"

type catalogUseCase struct {
	repo     catalog.Repository
	cache    *cache.RedisClient
	es       *search.Client
	notifier notification.Notifier
	logger   logger.Logger
}

func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, es *search.Client, notifier notification.Notifier, log logger.Logger) catalog.UseCase {
	return &catalogUseCase{
		repo:     repo,
		cache:    cache,
		es:       es,
		notifier: notifier,
		logger:   log,
	}
}

func validateCreate(input *dto.CreateProductInput) error {
	if input.Name == "" {
		return apperr.Validationf("name is required")
	}
	if input.CategoryMain == "" {
		return apperr.Validationf("category is required")
	}
	if input.NetQuantity == "" {
		return apperr.Validationf("net_quantity is required")
	}
	if input.SellingPrice <= 0 {
		return apperr.Validationf("selling_price must be positive")
	}
	if input.MRP != nil && input.SellingPrice > *input.MRP {
		return apperr.Validationf("selling_price cannot exceed mrp")
	}
	if len(input.Images) < 1 || len(input.Images) > 5 {
		return apperr.Validationf("between 1 and 5 images are required")
	}
	if input.TotalBoxes < 0 || input.PiecesPerBox < 0 {
		return apperr.Validationf("stock inputs cannot be negative")
	}
	return nil
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now()

	var description, brand, categorySub, categorySubSlug *string
	if input.Description != "" {
		description = &input.Description
	}
	if input.Brand != "" {
		brand = &input.Brand
	}
	if input.CategorySub != "" {
		categorySub = &input.CategorySub
		subSlug := catalog.Slugify(input.CategorySub)
		categorySubSlug = &subSlug
	}

	p := &model.Product{
		BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SellerID:         input.SellerID,
		Name:             input.Name,
		Slug:             catalog.NewSlug(input.Name),
		Description:      description,
		Brand:            brand,
		CategoryMain:     input.CategoryMain,
		CategorySub:      categorySub,
		CategoryMainSlug: catalog.Slugify(input.CategoryMain),
		CategorySubSlug:  categorySubSlug,
		Images:           input.Images,
		NetQuantity:      input.NetQuantity,
		MRP:              input.MRP,
		SellingPrice:     input.SellingPrice,
		GSTPercent:       input.GSTPercent,
		TotalBoxes:       input.TotalBoxes,
		PiecesPerBox:     input.PiecesPerBox,
		AvailablePieces:  catalog.DerivePieces(input.TotalBoxes, input.PiecesPerBox),
		Status:           model.ProductStatusPending,
	}

	if err := uc.persistWithSlugRetry(ctx, p, uc.repo.Create); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

// persistWithSlugRetry appends a second random suffix and retries the write
// exactly once when the slug unique index is hit. It never loops.
func (uc *catalogUseCase) persistWithSlugRetry(ctx context.Context, p *model.Product, write func(context.Context, *model.Product) error) error {
	err := write(ctx, p)
	if errors.Is(err, catalog.ErrSlugConflict) {
		p.Slug = catalog.RetrySlug(p.Slug)
		err = write(ctx, p)
	}
	return err
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted {
		return nil, apperr.NotFoundf("product not found")
	}
	if input.CallerRole != "admin" && p.SellerID != input.CallerID {
		return nil, apperr.Authorizationf("not the owner of this product")
	}

	// Patch semantics: only touched fields change, and derived state is
	// recomputed only for its changed inputs.
	if input.Name != nil && *input.Name != p.Name {
		if *input.Name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		p.Name = *input.Name
		p.Slug = catalog.NewSlug(p.Name)
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Brand != nil {
		p.Brand = input.Brand
	}
	if input.CategoryMain != nil && *input.CategoryMain != p.CategoryMain {
		if *input.CategoryMain == "" {
			return nil, apperr.Validationf("category cannot be empty")
		}
		p.CategoryMain = *input.CategoryMain
		p.CategoryMainSlug = catalog.Slugify(p.CategoryMain)
	}
	if input.CategorySub != nil {
		if *input.CategorySub == "" {
			p.CategorySub = nil
			p.CategorySubSlug = nil
		} else {
			p.CategorySub = input.CategorySub
			subSlug := catalog.Slugify(*input.CategorySub)
			p.CategorySubSlug = &subSlug
		}
	}
	if input.Images != nil {
		if len(input.Images) < 1 || len(input.Images) > 5 {
			return nil, apperr.Validationf("between 1 and 5 images are required")
		}
		p.Images = input.Images
	}
	if input.NetQuantity != nil {
		p.NetQuantity = *input.NetQuantity
	}
	if input.MRP != nil {
		p.MRP = input.MRP
	}
	if input.SellingPrice != nil {
		if *input.SellingPrice <= 0 {
			return nil, apperr.Validationf("selling_price must be positive")
		}
		p.SellingPrice = *input.SellingPrice
	}
	if p.MRP != nil && p.SellingPrice > *p.MRP {
		return nil, apperr.Validationf("selling_price cannot exceed mrp")
	}
	if input.GSTPercent != nil {
		p.GSTPercent = *input.GSTPercent
	}

	stockChanged := false
	if input.TotalBoxes != nil {
		if *input.TotalBoxes < 0 {
			return nil, apperr.Validationf("total_boxes cannot be negative")
		}
		p.TotalBoxes = *input.TotalBoxes
		stockChanged = true
	}
	if input.PiecesPerBox != nil {
		if *input.PiecesPerBox < 0 {
			return nil, apperr.Validationf("pieces_per_box cannot be negative")
		}
		p.PiecesPerBox = *input.PiecesPerBox
		stockChanged = true
	}
	if stockChanged {
		p.AvailablePieces = catalog.DerivePieces(p.TotalBoxes, p.PiecesPerBox)
	}

	p.UpdatedAt = time.Now()
	if err := uc.persistWithSlugRetry(ctx, p, uc.repo.Update); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) DeleteProduct(ctx context.Context, callerID, callerRole, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.IsDeleted {
		return nil // already gone
	}
	if callerRole != "admin" && p.SellerID != callerID {
		return apperr.Authorizationf("not the owner of this product")
	}

	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateListCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productsIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *catalogUseCase) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Visible() {
		return nil, apperr.NotFoundf("product not found")
	}
	return p, nil
}

func (uc *catalogUseCase) ListVisible(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	filters.Normalize()
	filters.VisibleOnly = true
	filters.SellerID = ""
	filters.Status = ""

	cacheKey, err := uc.listCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{Products: products, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

func (uc *catalogUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", f.SearchQuery),
							"fields": []string{"name^3", "description", "brand", "category_main", "category_sub"},
						},
					},
				},
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"status": "approved"}},
					{"term": map[string]interface{}{"is_deleted": false}},
				},
			},
		},
		"from": (f.Page - 1) * f.PageSize,
		"size": f.PageSize,
	}

	res, err := uc.es.Search(ctx, productsIndex, q)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *catalogUseCase) ListForSeller(ctx context.Context, sellerID string, page, pageSize int) ([]model.Product, int, error) {
	filters := &dto.ProductFilters{SellerID: sellerID, Page: page, PageSize: pageSize}
	filters.Normalize()
	return uc.repo.FindAll(ctx, filters)
}

func (uc *catalogUseCase) Approve(ctx context.Context, id string) (*model.Product, error) {
	return uc.moderate(ctx, id, model.ProductStatusApproved, nil,
		"Product approved", "Your product %q is now live.")
}

// Reject is deterministic on replay: rejecting an already-rejected product
// re-applies the given reason.
func (uc *catalogUseCase) Reject(ctx context.Context, id, reason string) (*model.Product, error) {
	return uc.moderate(ctx, id, model.ProductStatusRejected, &reason,
		"Product rejected", "Your product %q was rejected.")
}

func (uc *catalogUseCase) Block(ctx context.Context, id string) (*model.Product, error) {
	return uc.moderate(ctx, id, model.ProductStatusBlocked, nil,
		"Product blocked", "Your product %q has been blocked.")
}

func (uc *catalogUseCase) moderate(ctx context.Context, id string, status model.ProductStatus, reason *string, title, messageFmt string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("product not found")
	}

	p.Status = status
	p.RejectionReason = reason
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	uc.notifier.Notify(ctx, p.SellerID, notification.RecipientSeller,
		title, fmt.Sprintf(messageFmt, p.Name), notification.CategoryProduct)

	return p, nil
}

func (uc *catalogUseCase) listCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *catalogUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"seller_id": { "type": "keyword" },
				"name": { "type": "text" },
				"description": { "type": "text" },
				"brand": { "type": "text" },
				"category_main": { "type": "text" },
				"category_sub": { "type": "text" },
				"status": { "type": "keyword" },
				"is_deleted": { "type": "boolean" },
				"selling_price": { "type": "long" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productsIndex, mapping)

	if err := uc.es.Index(ctx, productsIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}
