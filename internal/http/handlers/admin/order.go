package admin

import (
	"strconv"
	"strings"

	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStateRequest 更新订单状态请求，state 支持数字或标签
type UpdateOrderStateRequest struct {
	State models.OrderState `json:"state" binding:"required"`
}

// AdminListOrders 订单列表（可按状态、用户过滤）
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)
	query := service.OrderListQuery{Page: page, PageSize: pageSize}

	if raw := strings.TrimSpace(c.Query("state")); raw != "" {
		state, err := models.ParseOrderState(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.order_state_invalid", nil)
			return
		}
		query.State = &state
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		query.UserID = uint(userID)
	}

	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), query)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	detail, err := h.OrderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondOrderError(c, err, "error.order_fetch_failed")
		return
	}
	response.Success(c, detail)
}

// AdminUpdateOrderState 推进订单状态
func (h *Handler) AdminUpdateOrderState(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateOrderStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !req.State.Valid() {
		respondError(c, response.CodeBadRequest, "error.order_state_invalid", nil)
		return
	}
	order, err := h.OrderService.UpdateOrderState(c.Request.Context(), orderID, req.State)
	if err != nil {
		respondOrderError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
