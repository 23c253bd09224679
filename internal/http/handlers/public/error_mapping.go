package public

import (
	"errors"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	if respondStockError(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

// respondStockError 库存类错误附带可用数量
func respondStockError(c *gin.Context, err error) bool {
	var exceeded *service.StockExceededError
	if errors.As(err, &exceeded) {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, "error.stock_exceeded", gin.H{
			"book_id":   exceeded.BookID,
			"available": exceeded.Available,
		})
		return true
	}
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, "error.stock_insufficient", gin.H{
			"book_id":   insufficient.BookID,
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
		return true
	}
	return false
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var stockErrorRules = []mappedHandlerError{
	{target: service.ErrBookNotFound, code: response.CodeNotFound, key: "error.book_not_found"},
	{target: service.ErrOutOfStock, code: response.CodeBadRequest, key: "error.book_out_of_stock"},
	{target: service.ErrStockExceeded, code: response.CodeBadRequest, key: "error.stock_exceeded"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.stock_insufficient"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, key: "error.amount_invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, key: "error.user_not_found"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, key: "error.cart_line_not_found"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
}

// 具体原因需排在 ErrVoucherInvalid 之前
var voucherErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherNotFound, code: response.CodeNotFound, key: "error.voucher_not_found"},
	{target: service.ErrVoucherExpired, code: response.CodeBadRequest, key: "error.voucher_expired"},
	{target: service.ErrVoucherUsed, code: response.CodeBadRequest, key: "error.voucher_used"},
	{target: service.ErrVoucherMinAmount, code: response.CodeBadRequest, key: "error.voucher_min_amount"},
	{target: service.ErrVoucherNotAssigned, code: response.CodeBadRequest, key: "error.voucher_not_assigned"},
	{target: service.ErrVoucherInvalid, code: response.CodeBadRequest, key: "error.voucher_invalid"},
}

var orderCreateErrorRules = concatMappedHandlerErrors(
	[]mappedHandlerError{
		{target: service.ErrDuplicateRequest, code: response.CodeConflict, key: "error.duplicate_request"},
		{target: service.ErrOrderInfoInvalid, code: response.CodeBadRequest, key: "error.order_info_invalid"},
	},
	stockErrorRules,
	cartErrorRules,
	voucherErrorRules,
)

var orderQueryErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

var notificationErrorRules = []mappedHandlerError{
	{target: service.ErrNotificationAbsent, code: response.CodeNotFound, key: "error.notification_not_found"},
}
