package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/internal/auth"
	"github.com/pyromart/pyromart-api/internal/catalog"
	"github.com/pyromart/pyromart-api/internal/catalog/dto"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.Logger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: log}
}

func (h *CatalogHandler) respondErr(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("catalog handler error", zap.Error(err))
	}
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}

type createProductRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Brand        string   `json:"brand"`
	CategoryMain string   `json:"category_main" binding:"required"`
	CategorySub  string   `json:"category_sub"`
	Images       []string `json:"images" binding:"required,min=1,max=5"`
	NetQuantity  string   `json:"net_quantity" binding:"required"`
	MRP          *float64 `json:"mrp"`           // rupees
	SellingPrice float64  `json:"selling_price"` // rupees
	GSTPercent   float64  `json:"gst_percent"`
	TotalBoxes   int      `json:"total_boxes"`
	PiecesPerBox int      `json:"pieces_per_box"`
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &dto.CreateProductInput{
		SellerID:     auth.GetUserID(c),
		Name:         req.Name,
		Description:  req.Description,
		Brand:        req.Brand,
		CategoryMain: req.CategoryMain,
		CategorySub:  req.CategorySub,
		Images:       req.Images,
		NetQuantity:  req.NetQuantity,
		SellingPrice: model.RupeesToPaise(req.SellingPrice),
		GSTPercent:   req.GSTPercent,
		TotalBoxes:   req.TotalBoxes,
		PiecesPerBox: req.PiecesPerBox,
	}
	if req.MRP != nil {
		mrp := model.RupeesToPaise(*req.MRP)
		input.MRP = &mrp
	}

	product, err := h.uc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Brand        *string  `json:"brand"`
	CategoryMain *string  `json:"category_main"`
	CategorySub  *string  `json:"category_sub"`
	Images       []string `json:"images"`
	NetQuantity  *string  `json:"net_quantity"`
	MRP          *float64 `json:"mrp"`
	SellingPrice *float64 `json:"selling_price"`
	GSTPercent   *float64 `json:"gst_percent"`
	TotalBoxes   *int     `json:"total_boxes"`
	PiecesPerBox *int     `json:"pieces_per_box"`
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &dto.UpdateProductInput{
		ID:           c.Param("id"),
		CallerID:     auth.GetUserID(c),
		CallerRole:   auth.GetRole(c),
		Name:         req.Name,
		Description:  req.Description,
		Brand:        req.Brand,
		CategoryMain: req.CategoryMain,
		CategorySub:  req.CategorySub,
		Images:       req.Images,
		NetQuantity:  req.NetQuantity,
		GSTPercent:   req.GSTPercent,
		TotalBoxes:   req.TotalBoxes,
		PiecesPerBox: req.PiecesPerBox,
	}
	if req.MRP != nil {
		mrp := model.RupeesToPaise(*req.MRP)
		input.MRP = &mrp
	}
	if req.SellingPrice != nil {
		price := model.RupeesToPaise(*req.SellingPrice)
		input.SellingPrice = &price
	}

	product, err := h.uc.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	err := h.uc.DeleteProduct(c.Request.Context(), auth.GetUserID(c), auth.GetRole(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *CatalogHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, total, err := h.uc.ListForSeller(c.Request.Context(), auth.GetUserID(c), page, limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, paginated(products, total, page, limit))
}

func (h *CatalogHandler) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filters := &dto.ProductFilters{
		SearchQuery:  c.Query("q"),
		CategorySlug: c.Query("category"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("order"),
		Page:         page,
		PageSize:     limit,
	}

	products, total, err := h.uc.ListVisible(c.Request.Context(), filters)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, paginated(products, total, filters.Page, filters.PageSize))
}

func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	product, err := h.uc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Approve(c *gin.Context) {
	product, err := h.uc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *CatalogHandler) Reject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.uc.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Block(c *gin.Context) {
	product, err := h.uc.Block(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func paginated(items interface{}, total, page, limit int) gin.H {
	return gin.H{
		"items":      items,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": dto.TotalPages(total, limit),
	}
}
