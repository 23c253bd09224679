package public

import (
	"strconv"
	"strings"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Name           string  `json:"name" binding:"required"`
	Phone1         string  `json:"phone1" binding:"required"`
	Phone2         *string `json:"phone2"`
	Address        string  `json:"address" binding:"required"`
	PickupLocation string  `json:"pickup_location"`
	VoucherID      *uint   `json:"voucher_id"`
}

// CreateOrder 以当前购物车下单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:         uid,
		VoucherID:      req.VoucherID,
		Name:           req.Name,
		Phone1:         req.Phone1,
		Phone2:         req.Phone2,
		Address:        req.Address,
		PickupLocation: req.PickupLocation,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(constants.IdempotencyHeader)),
	})
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	response.Success(c, result)
}

// ListOrders 当前用户订单列表（新订单在前）
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListUserOrders(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 按用户内订单编号获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(strings.TrimSpace(c.Param("order_number")))
	if err != nil || number <= 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	detail, err := h.OrderService.GetUserOrder(c.Request.Context(), uid, number)
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, detail)
}
