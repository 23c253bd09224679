package public

import (
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListVouchers 当前用户可用优惠券
func (h *Handler) ListVouchers(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rows, err := h.VoucherService.ListUserVouchers(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.voucher_fetch_failed", err)
		return
	}
	response.Success(c, rows)
}

// GetVoucherByName 按券码查询优惠券
func (h *Handler) GetVoucherByName(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	voucher, err := h.VoucherService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondWithMappedError(c, err, voucherErrorRules, response.CodeInternal, "error.voucher_fetch_failed")
		return
	}
	response.Success(c, voucher)
}
