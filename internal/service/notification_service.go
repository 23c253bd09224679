package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// NotificationListResult 通知列表结果
type NotificationListResult struct {
	Items  []models.Notification `json:"items"`
	Total  int64                 `json:"total"`
	Unread int64                 `json:"unread"`
}

// NotificationService 站内通知服务
type NotificationService struct {
	store *repository.Store
}

// NewNotificationService 创建站内通知服务
func NewNotificationService(store *repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// Create 写入通知
func (s *NotificationService) Create(ctx context.Context, notification *models.Notification) error {
	if notification == nil || notification.UserID == 0 {
		return nil
	}
	return s.store.WithContext(ctx).Notifications.Create(notification)
}

// List 用户通知列表
func (s *NotificationService) List(ctx context.Context, userID uint, page, pageSize int, unreadOnly bool) (*NotificationListResult, error) {
	store := s.store.WithContext(ctx)
	items, total, err := store.Notifications.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return nil, err
	}
	unread, err := store.Notifications.CountUnread(userID)
	if err != nil {
		return nil, err
	}
	return &NotificationListResult{Items: items, Total: total, Unread: unread}, nil
}

// MarkRead 标记通知已读，重复标记视为成功
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	store := s.store.WithContext(ctx)
	affected, err := store.Notifications.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	existing, err := store.Notifications.GetForUser(userID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotificationAbsent
	}
	return nil
}

// NotifyOrderPlaced 下单成功通知
func (s *NotificationService) NotifyOrderPlaced(ctx context.Context, order *models.Order) error {
	if order == nil {
		return nil
	}
	orderID := order.ID
	return s.Create(ctx, &models.Notification{
		UserID:  order.UserID,
		Title:   fmt.Sprintf("Order #%d placed", order.UserOrderNumber),
		Message: fmt.Sprintf("Your order #%d has been placed. Total: %s.", order.UserOrderNumber, order.TotalPrice.String()),
		Type:    constants.NotificationTypeOrderPlaced,
		OrderID: &orderID,
	})
}

// NotifyOrderState 订单状态变更通知
func (s *NotificationService) NotifyOrderState(ctx context.Context, order *models.Order, from, to models.OrderState) error {
	if order == nil {
		return nil
	}
	orderID := order.ID
	return s.Create(ctx, &models.Notification{
		UserID:  order.UserID,
		Title:   fmt.Sprintf("Order #%d %s", order.UserOrderNumber, to.String()),
		Message: fmt.Sprintf("Your order #%d moved from %s to %s.", order.UserOrderNumber, from.String(), to.String()),
		Type:    constants.NotificationTypeOrderState,
		OrderID: &orderID,
	})
}

// NotifyCartAdjusted 购物车因缺货被调整的通知
func (s *NotificationService) NotifyCartAdjusted(ctx context.Context, userID uint, removedBookIDs []uint) error {
	if userID == 0 || len(removedBookIDs) == 0 {
		return nil
	}
	message := fmt.Sprintf("%d sold-out book(s) were removed from your cart.", len(removedBookIDs))
	books, err := s.store.WithContext(ctx).Books.ListByIDs(removedBookIDs)
	if err != nil {
		return err
	}
	if len(books) > 0 {
		names := make([]string, 0, len(books))
		for _, book := range books {
			names = append(names, book.Name)
		}
		message = fmt.Sprintf("Sold out and removed from your cart: %s.", strings.Join(names, ", "))
	}
	return s.Create(ctx, &models.Notification{
		UserID:  userID,
		Title:   "Cart updated",
		Message: message,
		Type:    constants.NotificationTypeCartAdjusted,
	})
}
