package admin

import (
	"strconv"
	"strings"

	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetRevenueStats 已送达订单营收统计
func (h *Handler) GetRevenueStats(c *gin.Context) {
	summary, err := h.OrderService.RevenueStats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"delivered_orders": summary.DeliveredOrders,
		"revenue":          summary.Revenue,
	})
}

// GetOrderStats 订单状态统计
func (h *Handler) GetOrderStats(c *gin.Context) {
	counts, err := h.OrderService.OrderStats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, counts)
}

// GetBestsellers 畅销榜，limit 默认 5
func (h *Handler) GetBestsellers(c *gin.Context) {
	limit, _ := strconv.Atoi(strings.TrimSpace(c.DefaultQuery("limit", "5")))
	items, err := h.OrderService.TopSellingBooks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// GetMostOrderedBook 销量第一的图书，无数据时 book 为 null
func (h *Handler) GetMostOrderedBook(c *gin.Context) {
	book, err := h.OrderService.MostOrderedBook(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"book": book})
}

// GetEarnings 本月、本年与累计销售额
func (h *Handler) GetEarnings(c *gin.Context) {
	report, err := h.OrderService.Earnings(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, report)
}

// GetInventoryStats 库存统计
func (h *Handler) GetInventoryStats(c *gin.Context) {
	stats, err := h.StockService.InventoryStats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"stats":     stats,
		"threshold": h.StockService.LowStockThreshold(),
	})
}
