package public

import (
	"github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	BookID uint `json:"book_id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// UpdateCartItemsRequest 购物车批量更新请求
type UpdateCartItemsRequest struct {
	Items []service.CartItemUpdate `json:"items" binding:"required"`
}

// CartResponse 购物车页响应
type CartResponse struct {
	CartID     uint                    `json:"cart_id"`
	Items      []service.CartItemView  `json:"items"`
	Total      service.CartTotal       `json:"total"`
	Validation *service.CartValidation `json:"validation"`
}

var cartMutationErrorRules = concatMappedHandlerErrors(stockErrorRules, cartErrorRules)

// GetCart 获取购物车（合并重复行并附带库存校验结果）
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cart, err := h.CartService.EnsureCart(ctx, uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	items, err := h.CartService.GetItemsInCart(ctx, uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	total, err := h.CartService.GetTotal(ctx, cart.ID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	validation, err := h.CartValidator.Validate(ctx, cart.ID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, CartResponse{
		CartID:     cart.ID,
		Items:      items,
		Total:      total,
		Validation: validation,
	})
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	line, err := h.CartService.AddItem(c.Request.Context(), uid, req.BookID, req.Amount)
	if err != nil {
		respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, line)
}

// UpdateCartItems 购物车页批量修改数量
func (h *Handler) UpdateCartItems(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.UpdateItems(c.Request.Context(), uid, req.Items); err != nil {
		respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"updated": len(req.Items)})
}

// DeleteCartItem 从购物车移除某本书
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	bookID, ok := shared.ParseUintParam(c, "book_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CartService.RemoveItem(c.Request.Context(), uid, bookID); err != nil {
		respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"book_id": bookID})
}

// ValidateCart 校验购物车库存
func (h *Handler) ValidateCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cart, err := h.CartService.EnsureCart(ctx, uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	validation, err := h.CartValidator.Validate(ctx, cart.ID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, validation)
}

// PruneCart 移除已售罄图书并通知用户
func (h *Handler) PruneCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cart, err := h.CartService.EnsureCart(ctx, uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	removed, err := h.CartValidator.PruneUnavailable(ctx, cart.ID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	if err := h.NotificationService.NotifyCartAdjusted(ctx, uid, removed); err != nil {
		requestLog(c).Warnw("cart_prune_notify_failed", "user_id", uid, "error", err)
	}
	if removed == nil {
		removed = []uint{}
	}
	response.Success(c, gin.H{"removed_book_ids": removed})
}
