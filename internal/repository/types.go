package repository

import (
	"time"

	"github.com/bookstore-next/internal/models"
)

// BookListFilter 查询图书列表的过滤条件
type BookListFilter struct {
	Page          int
	PageSize      int
	Search        string
	MaxStock      *int // 库存严格小于该值（补货列表）
	OnlyOrderable bool // 仅库存大于 0
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	State       *models.OrderState
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	UnreadOnly bool
}

// CartLineView 购物车行项目与图书信息的联表结果
type CartLineView struct {
	LineID   uint
	BookID   uint
	BookName string
	Price    models.Money
	Stock    int
	Amount   int
}

// RevenueSummary 营收统计（仅统计已送达订单）
type RevenueSummary struct {
	DeliveredOrders int64
	Revenue         models.Money
}

// OrderStateCounts 订单状态统计
type OrderStateCounts struct {
	Total             int64 `json:"total"`
	Completed         int64 `json:"completed"`
	Pending           int64 `json:"pending"`
	PendingDeliveries int64 `json:"pending_deliveries"`
}

// BookSales 图书销量（仅统计已送达订单）
type BookSales struct {
	BookID uint         `json:"book_id"`
	Name   string       `json:"name"`
	Price  models.Money `json:"price"`
	Sold   int64        `json:"sold"`
}

// SalesSummary 时间窗口内的销售汇总
type SalesSummary struct {
	BooksSold int64        `json:"books_sold"`
	Earned    models.Money `json:"earned"`
}

// InventoryStats 库存统计
type InventoryStats struct {
	TotalBooks      int64 `json:"total_books"`
	TotalAuthors    int64 `json:"total_authors"`
	TotalPublishers int64 `json:"total_publishers"`
	OutOfStock      int64 `json:"out_of_stock"`
	LowStock        int64 `json:"low_stock"`
}
