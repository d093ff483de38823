package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/internal/auth"
	"github.com/pyromart/pyromart-api/internal/middleware"
	"github.com/pyromart/pyromart-api/internal/model"
	"github.com/pyromart/pyromart-api/internal/order"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.Logger
}

func NewOrderHandler(uc order.UseCase, log logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) respondErr(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("order handler error", zap.Error(err))
	}
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}

func (h *OrderHandler) Create(c *gin.Context) {
	o, err := h.uc.Create(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	middleware.RecordOrderCreated()
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.uc.GetForCustomer(c.Request.Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, total, err := h.uc.ListForCustomer(c.Request.Context(), auth.GetUserID(c), page, limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": orders, "total": total, "page": page, "limit": limit})
}

func (h *OrderHandler) ListAdmin(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")
	if status == "" {
		status = c.Param("status")
	}

	orders, total, err := h.uc.ListAdmin(c.Request.Context(), status, page, limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": orders, "total": total, "page": page, "limit": limit})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("orderId"), model.OrderStatus(req.Status))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.uc.Cancel(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
