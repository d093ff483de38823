package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/internal/auth"
	"github.com/pyromart/pyromart-api/internal/cart"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.Logger
}

func NewCartHandler(uc cart.UseCase, log logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, logger: log}
}

func (h *CartHandler) respondErr(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("cart handler error", zap.Error(err))
	}
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.uc.AddItem(c.Request.Context(), auth.GetUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.uc.RemoveItem(c.Request.Context(), auth.GetUserID(c), c.Param("productId"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.uc.GetCart(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
