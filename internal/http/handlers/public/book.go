package public

import (
	"strings"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// BookStockResponse 库存查询响应
type BookStockResponse struct {
	BookID uint `json:"book_id"`
	Stock  int  `json:"stock"`
}

// GetBookStock 查询图书实时库存
func (h *Handler) GetBookStock(c *gin.Context) {
	bookID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	stock, err := h.StockService.GetStock(c.Request.Context(), bookID)
	if err != nil {
		respondWithMappedError(c, err, stockErrorRules, response.CodeInternal, "error.stock_fetch_failed")
		return
	}
	response.Success(c, BookStockResponse{BookID: bookID, Stock: stock})
}

// ListBooks 可下单图书列表（库存大于 0）
func (h *Handler) ListBooks(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := strings.TrimSpace(c.Query("search"))
	books, total, err := h.StockService.ListOrderable(c.Request.Context(), search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.book_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, books, response.BuildPagination(page, pageSize, total))
}

// BookPurchasedResponse 购买资格响应
type BookPurchasedResponse struct {
	BookID    uint `json:"book_id"`
	Purchased bool `json:"purchased"`
}

// GetBookPurchased 当前用户是否已收到过包含该书的订单（评价资格）
func (h *Handler) GetBookPurchased(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	bookID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	purchased, err := h.OrderService.HasPurchasedBook(c.Request.Context(), uid, bookID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, BookPurchasedResponse{BookID: bookID, Purchased: purchased})
}
