package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/internal/auth"
	"github.com/pyromart/pyromart-api/internal/middleware"
	"github.com/pyromart/pyromart-api/internal/payment"
	"github.com/pyromart/pyromart-api/internal/payment/dto"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type PaymentHandler struct {
	uc     payment.UseCase
	logger logger.Logger
}

func NewPaymentHandler(uc payment.UseCase, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: log}
}

func (h *PaymentHandler) respondErr(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("payment handler error", zap.Error(err))
	}
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}

type createIntentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.uc.CreateIntent(c.Request.Context(), auth.GetUserID(c), req.OrderID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

type verifyRequest struct {
	OrderID           string `json:"order_id" binding:"required"`
	GatewayOrderRef   string `json:"gateway_order_ref" binding:"required"`
	GatewayPaymentRef string `json:"gateway_payment_ref" binding:"required"`
	Signature         string `json:"signature" binding:"required"`
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.Verify(c.Request.Context(), auth.GetUserID(c), &dto.VerifyInput{
		OrderID:           req.OrderID,
		GatewayOrderRef:   req.GatewayOrderRef,
		GatewayPaymentRef: req.GatewayPaymentRef,
		Signature:         req.Signature,
	})
	if err != nil {
		middleware.RecordPaymentVerified("failure")
		h.respondErr(c, err)
		return
	}

	middleware.RecordPaymentVerified("success")
	c.JSON(http.StatusOK, o)
}

type markFailedRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	var req markFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.MarkFailed(c.Request.Context(), auth.GetUserID(c), req.OrderID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
