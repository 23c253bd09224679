package service

import (
	"context"

	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/queue"
	"github.com/bookstore-next/internal/repository"
)

// PostOrderService 下单与状态变更后的尽力而为处理
// 单步失败只记录日志，不影响订单本身。
type PostOrderService struct {
	store         *repository.Store
	vouchers      *VoucherService
	notifications *NotificationService
}

// NewPostOrderService 创建下单后续处理服务
func NewPostOrderService(store *repository.Store, vouchers *VoucherService, notifications *NotificationService) *PostOrderService {
	return &PostOrderService{
		store:         store,
		vouchers:      vouchers,
		notifications: notifications,
	}
}

// HandleOrderPlaced 更新用户统计、发送下单通知，首单时发放欢迎券
func (s *PostOrderService) HandleOrderPlaced(ctx context.Context, orderID uint) error {
	order, err := s.store.WithContext(ctx).Orders.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("post_order_missing", "order_id", orderID)
		return nil
	}

	if err := s.store.WithContext(ctx).Metadata.RecordOrder(order.UserID, order.TotalPrice, order.CreatedAt); err != nil {
		logger.Warnw("post_order_record_metadata_failed", "order_id", order.ID, "error", err)
	}
	if s.notifications != nil {
		if err := s.notifications.NotifyOrderPlaced(ctx, order); err != nil {
			logger.Warnw("post_order_notify_failed", "order_id", order.ID, "error", err)
		}
	}
	// 欢迎券只随用户的第一笔订单发放
	if s.vouchers != nil && order.UserOrderNumber == 1 {
		if err := s.vouchers.GrantWelcomeVoucher(ctx, order.UserID); err != nil {
			logger.Warnw("post_order_grant_welcome_voucher_failed", "order_id", order.ID, "error", err)
		}
	}
	return nil
}

// HandleOrderStateChanged 发送订单状态变更通知
func (s *PostOrderService) HandleOrderStateChanged(ctx context.Context, payload queue.OrderStateChangedPayload) error {
	order, err := s.store.WithContext(ctx).Orders.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil || s.notifications == nil {
		return nil
	}
	return s.notifications.NotifyOrderState(ctx, order, models.OrderState(payload.FromState), models.OrderState(payload.ToState))
}
