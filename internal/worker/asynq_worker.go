package worker

import (
	"context"
	"fmt"

	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/queue"

	"github.com/hibiken/asynq"
)

// OrderEventHandler 订单事件处理能力（由 service.PostOrderService 提供）
type OrderEventHandler interface {
	HandleOrderPlaced(ctx context.Context, orderID uint) error
	HandleOrderStateChanged(ctx context.Context, payload queue.OrderStateChangedPayload) error
}

// Consumer 异步任务消费者
type Consumer struct {
	orders OrderEventHandler
}

// NewConsumer 创建消费者
func NewConsumer(orders OrderEventHandler) *Consumer {
	return &Consumer{orders: orders}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
	mux.HandleFunc(queue.TaskOrderStateChanged, c.handleOrderStateChanged)
}

func (c *Consumer) handleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.orders == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodeOrderPlaced(task)
	if err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.orders.HandleOrderPlaced(ctx, payload.OrderID); err != nil {
		logger.Warnw("worker_order_placed_failed", "order_id", payload.OrderID, "user_id", payload.UserID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStateChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.orders == nil {
		logger.Debugw("worker_order_state_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodeOrderStateChanged(task)
	if err != nil {
		logger.Warnw("worker_order_state_changed_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_state_changed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.orders.HandleOrderStateChanged(ctx, payload); err != nil {
		logger.Warnw("worker_order_state_changed_failed",
			"order_id", payload.OrderID,
			"from_state", payload.FromState,
			"to_state", payload.ToState,
			"error", err,
		)
		return err
	}
	return nil
}
