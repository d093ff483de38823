package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/internal/auth"
	"github.com/pyromart/pyromart-api/internal/payout"
	"github.com/pyromart/pyromart-api/internal/payout/dto"
	"github.com/pyromart/pyromart-api/pkg/apperr"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type PayoutHandler struct {
	uc     payout.UseCase
	logger logger.Logger
}

func NewPayoutHandler(uc payout.UseCase, log logger.Logger) *PayoutHandler {
	return &PayoutHandler{uc: uc, logger: log}
}

func (h *PayoutHandler) respondErr(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("payout handler error", zap.Error(err))
	}
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}

func (h *PayoutHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	payouts, total, err := h.uc.ListForSeller(c.Request.Context(), auth.GetUserID(c), page, limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": payouts, "total": total, "page": page, "limit": limit})
}

func (h *PayoutHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filters := &dto.PayoutFilters{
		SellerID: c.Query("seller_id"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: limit,
	}

	payouts, total, err := h.uc.ListAll(c.Request.Context(), filters)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": payouts, "total": total, "page": page, "limit": limit})
}

func (h *PayoutHandler) MarkProcessing(c *gin.Context) {
	p, err := h.uc.MarkProcessing(c.Request.Context(), c.Param("payoutId"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	p, err := h.uc.MarkPaid(c.Request.Context(), c.Param("payoutId"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
