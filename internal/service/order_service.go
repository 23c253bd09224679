package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/queue"
	"github.com/bookstore-next/internal/repository"
)

// OrderService 订单服务
type OrderService struct {
	store          *repository.Store
	vouchers       *VoucherService
	queueClient    *queue.Client
	postOrder      *PostOrderService
	cancelRestock  bool
	idempotencyTTL time.Duration
	now            func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(store *repository.Store, vouchers *VoucherService, queueClient *queue.Client, postOrder *PostOrderService, cfg config.StoreConfig) *OrderService {
	return &OrderService{
		store:          store,
		vouchers:       vouchers,
		queueClient:    queueClient,
		postOrder:      postOrder,
		cancelRestock:  cfg.CancelRestock,
		idempotencyTTL: time.Duration(cfg.IdempotencyTTLSeconds) * time.Second,
		now:            time.Now,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID         uint
	VoucherID      *uint
	Name           string
	Phone1         string
	Phone2         *string
	Address        string
	PickupLocation string
	IdempotencyKey string
}

// CreateOrderResult 创建订单结果
type CreateOrderResult struct {
	ID             uint         `json:"id"`
	OrderNumber    int          `json:"order_number"`
	SubtotalPrice  models.Money `json:"subtotal_price"`
	DiscountAmount models.Money `json:"discount_amount"`
	TotalPrice     models.Money `json:"total_price"`
}

// orderBusinessErrors 下单时原样返回给调用方的业务错误
var orderBusinessErrors = []error{
	ErrEmptyCart,
	ErrInsufficientStock,
	ErrVoucherInvalid,
	ErrUserNotFound,
	ErrBookNotFound,
	ErrInvalidAmount,
}

func isOrderBusinessError(err error) bool {
	for _, target := range orderBusinessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// CreateOrder 将用户当前购物车转为订单
// 扣减库存、核销优惠券、写入订单与换发新购物车在同一事务内完成，任一步失败整体回滚。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Phone1 = strings.TrimSpace(input.Phone1)
	input.Address = strings.TrimSpace(input.Address)
	input.PickupLocation = strings.TrimSpace(input.PickupLocation)
	if input.Phone2 != nil {
		phone2 := strings.TrimSpace(*input.Phone2)
		if phone2 == "" {
			input.Phone2 = nil
		} else {
			input.Phone2 = &phone2
		}
	}
	if input.Name == "" || input.Phone1 == "" || input.Address == "" {
		return nil, ErrOrderInfoInvalid
	}

	reserved, err := cache.ReserveIdempotencyKey(ctx, input.UserID, input.IdempotencyKey, s.idempotencyTTL)
	if err != nil {
		logger.Warnw("order_idempotency_reserve_failed", "user_id", input.UserID, "error", err)
	} else if !reserved {
		return nil, ErrDuplicateRequest
	}

	var order *models.Order
	err = s.store.WithTransaction(ctx, func(tx *repository.Store) error {
		created, err := s.createOrderTx(tx, input)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		if releaseErr := cache.ReleaseIdempotencyKey(ctx, input.UserID, input.IdempotencyKey); releaseErr != nil {
			logger.Warnw("order_idempotency_release_failed", "user_id", input.UserID, "error", releaseErr)
		}
		if isOrderBusinessError(err) {
			return nil, err
		}
		logger.Errorw("order_create_failed",
			"user_id", input.UserID,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	s.dispatchOrderPlaced(ctx, order)

	return &CreateOrderResult{
		ID:             order.ID,
		OrderNumber:    order.UserOrderNumber,
		SubtotalPrice:  order.SubtotalPrice,
		DiscountAmount: order.DiscountAmount,
		TotalPrice:     order.TotalPrice,
	}, nil
}

func (s *OrderService) createOrderTx(tx *repository.Store, input CreateOrderInput) (*models.Order, error) {
	cart, _, err := ensureUserCart(tx, input.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := consolidateCart(tx, cart.ID); err != nil {
		return nil, err
	}
	lines, err := tx.Carts.ListLineViews(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	for _, line := range lines {
		if err := decrementStock(tx.Books, line.BookID, line.Amount); err != nil {
			return nil, err
		}
	}
	subtotal := sumCartLines(lines).Price

	discount := models.ZeroMoney()
	var voucher *models.Voucher
	if input.VoucherID != nil && *input.VoucherID != 0 {
		applied, amount, err := s.vouchers.applyForOrder(tx, input.UserID, *input.VoucherID, subtotal)
		if err != nil {
			return nil, err
		}
		voucher = applied
		discount = amount
	}

	number, err := tx.Orders.NextUserOrderNumber(input.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		UserID:          input.UserID,
		UserOrderNumber: number,
		CartID:          cart.ID,
		State:           models.OrderStatePlaced,
		Name:            input.Name,
		Phone1:          input.Phone1,
		Phone2:          input.Phone2,
		Address:         input.Address,
		PickupLocation:  input.PickupLocation,
		SubtotalPrice:   subtotal,
		DiscountAmount:  discount,
		TotalPrice:      subtotal.Sub(discount),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if voucher != nil {
		voucherID := voucher.ID
		order.VoucherID = &voucherID
	}
	if err := tx.Orders.Create(order); err != nil {
		return nil, err
	}

	if voucher != nil {
		affected, err := tx.Vouchers.MarkUsed(input.UserID, voucher.ID, order.ID, now)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, newVoucherError(ErrVoucherUsed)
		}
	}

	if _, err := issueCart(tx, input.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// dispatchOrderPlaced 下单后续处理（异步优先，队列未启用时同步执行），失败仅记录日志
func (s *OrderService) dispatchOrderPlaced(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderPlaced(queue.OrderPlacedPayload{
			OrderID: order.ID,
			UserID:  order.UserID,
		}); err != nil {
			logger.Warnw("order_enqueue_placed_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
		return
	}
	if s.postOrder == nil {
		return
	}
	if err := s.postOrder.HandleOrderPlaced(ctx, order.ID); err != nil {
		logger.Warnw("order_post_process_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
}

// UpdateOrderState 管理端推进订单状态
// 仅允许流转表中声明的状态变化；取消时在同一事务内回补库存。
func (s *OrderService) UpdateOrderState(ctx context.Context, orderID uint, newState models.OrderState) (*models.Order, error) {
	if !newState.Valid() {
		return nil, ErrOrderStateInvalid
	}
	var (
		updated *models.Order
		from    models.OrderState
	)
	err := s.store.WithTransaction(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders.LockByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		from = order.State
		if !isTransitionAllowed(from, newState) {
			return ErrOrderStateInvalid
		}
		affected, err := tx.Orders.UpdateState(order.ID, from, newState, s.now())
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStateInvalid
		}
		if newState == models.OrderStateCancelled && s.cancelRestock {
			if err := restockOrderLines(tx, order); err != nil {
				return err
			}
		}
		updated, err = tx.Orders.GetByID(order.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderStateInvalid) {
			return nil, err
		}
		logger.Errorw("order_update_state_failed",
			"order_id", orderID,
			"target_state", int(newState),
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	s.dispatchOrderStateChanged(ctx, updated, from)
	return updated, nil
}

// restockOrderLines 取消订单时按冻结购物车的行项目回补库存
func restockOrderLines(tx *repository.Store, order *models.Order) error {
	lines, err := tx.Carts.ListLines(order.CartID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.Amount <= 0 {
			continue
		}
		affected, err := tx.Books.IncrementStock(line.BookID, line.Amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			logger.Warnw("order_cancel_restock_book_missing",
				"order_id", order.ID,
				"book_id", line.BookID,
			)
		}
	}
	return nil
}

func (s *OrderService) dispatchOrderStateChanged(ctx context.Context, order *models.Order, from models.OrderState) {
	if order == nil {
		return
	}
	payload := queue.OrderStateChangedPayload{
		OrderID:   order.ID,
		UserID:    order.UserID,
		FromState: int(from),
		ToState:   int(order.State),
	}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStateChanged(payload); err != nil {
			logger.Warnw("order_enqueue_state_changed_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
		return
	}
	if s.postOrder == nil {
		return
	}
	if err := s.postOrder.HandleOrderStateChanged(ctx, payload); err != nil {
		logger.Warnw("order_state_notify_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
}
