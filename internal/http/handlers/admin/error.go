package admin

import (
	"errors"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondStockError 库存更新类错误统一映射
func respondStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		respondError(c, response.CodeNotFound, "error.book_not_found", nil)
	case errors.Is(err, service.ErrStockInvalid):
		respondError(c, response.CodeBadRequest, "error.stock_invalid", nil)
	case errors.Is(err, service.ErrInvalidAmount):
		respondError(c, response.CodeBadRequest, "error.amount_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.stock_update_failed", err)
	}
}

// respondOrderError 订单类错误统一映射
func respondOrderError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
	case errors.Is(err, service.ErrOrderStateInvalid):
		respondError(c, response.CodeBadRequest, "error.order_state_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
