package service

import (
	"context"
	"time"

	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// OrderDetail 订单详情（订单 + 冻结购物车的行项目）
type OrderDetail struct {
	Order      *models.Order       `json:"order"`
	StateLabel string              `json:"state_label"`
	Items      []CartItemView      `json:"items"`
	ItemCount  int                 `json:"item_count"`
	NextStates []models.OrderState `json:"next_states"`
}

// OrderListQuery 订单列表查询参数
type OrderListQuery struct {
	Page     int
	PageSize int
	UserID   uint
	State    *models.OrderState
}

// GetOrderByID 获取订单详情
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uint) (*OrderDetail, error) {
	store := s.store.WithContext(ctx)
	order, err := store.Orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return buildOrderDetail(store, order)
}

// GetUserOrder 按用户内编号获取本人订单详情
func (s *OrderService) GetUserOrder(ctx context.Context, userID uint, orderNumber int) (*OrderDetail, error) {
	store := s.store.WithContext(ctx)
	order, err := store.Orders.GetByUserOrderNumber(userID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return buildOrderDetail(store, order)
}

func buildOrderDetail(store *repository.Store, order *models.Order) (*OrderDetail, error) {
	rows, err := store.Carts.ListLineViews(order.CartID)
	if err != nil {
		return nil, err
	}
	items := make([]CartItemView, 0, len(rows))
	count := 0
	for _, row := range rows {
		items = append(items, CartItemView{
			LineID:    row.LineID,
			BookID:    row.BookID,
			BookName:  row.BookName,
			UnitPrice: row.Price,
			Amount:    row.Amount,
			LineTotal: row.Price.MulInt(row.Amount),
			Stock:     row.Stock,
		})
		count += row.Amount
	}
	return &OrderDetail{
		Order:      order,
		StateLabel: order.State.String(),
		Items:      items,
		ItemCount:  count,
		NextStates: NextOrderStates(order.State),
	}, nil
}

// ListUserOrders 用户订单列表（最新在前）
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.ListOrders(ctx, OrderListQuery{Page: page, PageSize: pageSize, UserID: userID})
}

// ListOrders 管理端订单列表
func (s *OrderService) ListOrders(ctx context.Context, query OrderListQuery) ([]models.Order, int64, error) {
	return s.store.WithContext(ctx).Orders.List(repository.OrderListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		UserID:   query.UserID,
		State:    query.State,
	})
}

// RevenueStats 营收统计（仅计入已送达订单）
func (s *OrderService) RevenueStats(ctx context.Context) (repository.RevenueSummary, error) {
	return s.store.WithContext(ctx).Orders.SumDelivered()
}

// 畅销榜条数上限
const (
	defaultTopSellingLimit = 5
	maxTopSellingLimit     = 50
)

// EarningsReport 本月、本年与累计的销售汇总
type EarningsReport struct {
	Month   repository.SalesSummary `json:"month"`
	Year    repository.SalesSummary `json:"year"`
	AllTime repository.SalesSummary `json:"all_time"`
}

// OrderStats 订单状态统计
func (s *OrderService) OrderStats(ctx context.Context) (repository.OrderStateCounts, error) {
	return s.store.WithContext(ctx).Orders.CountByState()
}

// TopSellingBooks 已送达订单中销量最高的图书
func (s *OrderService) TopSellingBooks(ctx context.Context, limit int) ([]repository.BookSales, error) {
	if limit <= 0 {
		limit = defaultTopSellingLimit
	}
	if limit > maxTopSellingLimit {
		limit = maxTopSellingLimit
	}
	return s.store.WithContext(ctx).Orders.TopSellingBooks(limit)
}

// MostOrderedBook 销量第一的图书，无已送达订单时返回 nil
func (s *OrderService) MostOrderedBook(ctx context.Context) (*repository.BookSales, error) {
	rows, err := s.store.WithContext(ctx).Orders.TopSellingBooks(1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Earnings 按下单时间统计本月、本年与累计销售额
func (s *OrderService) Earnings(ctx context.Context) (*EarningsReport, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := monthStart.AddDate(0, 1, 0)

	repo := s.store.WithContext(ctx).Orders
	var report EarningsReport
	var err error
	if report.Month, err = repo.SalesBetween(monthStart, end); err != nil {
		return nil, err
	}
	if report.Year, err = repo.SalesBetween(yearStart, yearStart.AddDate(1, 0, 0)); err != nil {
		return nil, err
	}
	if report.AllTime, err = repo.SalesBetween(time.Time{}, yearStart.AddDate(1, 0, 0)); err != nil {
		return nil, err
	}
	return &report, nil
}

// HasPurchasedBook 用户是否有包含该书且已送达的订单（评价资格）
func (s *OrderService) HasPurchasedBook(ctx context.Context, userID, bookID uint) (bool, error) {
	if userID == 0 || bookID == 0 {
		return false, nil
	}
	return s.store.WithContext(ctx).Orders.HasDeliveredBook(userID, bookID)
}
