package admin

import (
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpdateStockRequest 设置库存请求
type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// RestockRequest 补货请求
type RestockRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// ListRestockBooks 低库存补货列表
func (h *Handler) ListRestockBooks(c *gin.Context) {
	page, pageSize := parsePagination(c)
	books, total, err := h.StockService.ListLowStock(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.book_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"threshold": h.StockService.LowStockThreshold(),
		"items":     books,
	}, response.BuildPagination(page, pageSize, total))
}

// UpdateBookStock 直接设置库存
func (h *Handler) UpdateBookStock(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.StockService.UpdateStock(c.Request.Context(), bookID, *req.Stock); err != nil {
		respondStockError(c, err)
		return
	}
	if adminID, exists := c.Get("admin_id"); exists {
		requestLog(c).Infow("admin_book_stock_updated", "admin_id", adminID, "book_id", bookID, "stock", *req.Stock)
	}
	response.Success(c, gin.H{"book_id": bookID, "stock": *req.Stock})
}

// RestockBook 增加库存
func (h *Handler) RestockBook(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	stock, err := h.StockService.Restock(c.Request.Context(), bookID, req.Amount)
	if err != nil {
		respondStockError(c, err)
		return
	}
	response.Success(c, gin.H{"book_id": bookID, "stock": stock})
}
