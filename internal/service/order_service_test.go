package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookstore-next/internal/models"

	"github.com/stretchr/testify/require"
)

func orderInput(userID uint) CreateOrderInput {
	return CreateOrderInput{
		UserID:         userID,
		Name:           "Ada Lovelace",
		Phone1:         "13800000000",
		Address:        "1 Analytical Engine Rd",
		PickupLocation: "Front desk",
	}
}

func TestCreateOrderDecrementsEachLineOnce(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "ada")
	b1 := f.seedBook(t, "Book A", "10", 5)
	b2 := f.seedBook(t, "Book B", "5", 3)

	_, err := f.carts.AddItem(ctx, user.ID, b1.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, user.ID, b2.ID, 1)
	require.NoError(t, err)
	spent, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)

	result, err := f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)
	require.Equal(t, 1, result.OrderNumber)
	require.Equal(t, "25.00", result.TotalPrice.String())
	require.Equal(t, 3, f.bookStock(t, b1.ID))
	require.Equal(t, 2, f.bookStock(t, b2.ID))

	var orders []models.Order
	require.NoError(t, f.db.Find(&orders).Error)
	require.Len(t, orders, 1)
	require.Equal(t, models.OrderStatePlaced, orders[0].State)
	require.Equal(t, spent.ID, orders[0].CartID)

	fresh, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, spent.ID, fresh.ID)
	var spentLines int64
	require.NoError(t, f.db.Model(&models.CartLine{}).Where("cart_id = ?", spent.ID).Count(&spentLines).Error)
	require.EqualValues(t, 2, spentLines)

	_, err = f.carts.AddItem(ctx, user.ID, b1.ID, 1)
	require.NoError(t, err)
	second, err := f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)
	require.Greater(t, second.OrderNumber, result.OrderNumber)
	require.Equal(t, 2, f.bookStock(t, b1.ID))
}

func TestCreateOrderIsAtomicOnInsufficientStock(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "bert")
	bookA := f.seedBook(t, "Last Copy", "10", 1)
	bookB := f.seedBook(t, "Sold Out", "10", 0)

	_, err := f.carts.AddItem(ctx, user.ID, bookA.ID, 1)
	require.NoError(t, err)
	cart, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	f.forceLine(t, cart.ID, bookB.ID, 1)

	_, err = f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.ErrorIs(t, err, ErrInsufficientStock)
	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, bookB.ID, insufficient.BookID)
	require.Equal(t, 0, insufficient.Available)
	require.Equal(t, 1, insufficient.Requested)

	require.Equal(t, 1, f.bookStock(t, bookA.ID))
	require.Equal(t, 0, f.bookStock(t, bookB.ID))
	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	same, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, cart.ID, same.ID)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := setupServiceTest(t)
	user := f.seedUser(t, "cleo")
	_, err := f.orders.CreateOrder(context.Background(), orderInput(user.ID))
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrderRequiresContactInfo(t *testing.T) {
	f := setupServiceTest(t)
	user := f.seedUser(t, "dina")
	input := orderInput(user.ID)
	input.Phone1 = "  "
	_, err := f.orders.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrOrderInfoInvalid)
}

func TestCreateOrderAppliesVoucherOnce(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "emil")
	book := f.seedBook(t, "Discounted", "12.5", 10)
	voucher := f.seedVoucher(t, "TENOFF", 10, "100", "0", time.Now().Add(24*time.Hour))
	_, err := f.store.Vouchers.AssignToUser(user.ID, voucher.ID, time.Now())
	require.NoError(t, err)

	_, err = f.carts.AddItem(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)
	input := orderInput(user.ID)
	input.VoucherID = &voucher.ID
	result, err := f.orders.CreateOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "25.00", result.SubtotalPrice.String())
	require.Equal(t, "2.50", result.DiscountAmount.String())
	require.Equal(t, "22.50", result.TotalPrice.String())

	held, err := f.store.Vouchers.GetUserVoucher(user.ID, voucher.ID)
	require.NoError(t, err)
	require.True(t, held.IsUsed)
	require.NotNil(t, held.UsedInOrderID)
	require.Equal(t, result.ID, *held.UsedInOrderID)

	_, err = f.carts.AddItem(ctx, user.ID, book.ID, 1)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, input)
	require.ErrorIs(t, err, ErrVoucherInvalid)
	require.ErrorIs(t, err, ErrVoucherUsed)
	require.Equal(t, 8, f.bookStock(t, book.ID))
}

func TestCreateOrderVoucherFailureRollsBackStock(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "fred")
	book := f.seedBook(t, "Cheap", "5", 10)
	voucher := f.seedVoucher(t, "BIGSPEND", 10, "100", "100", time.Now().Add(24*time.Hour))
	_, err := f.store.Vouchers.AssignToUser(user.ID, voucher.ID, time.Now())
	require.NoError(t, err)
	unassigned := f.seedVoucher(t, "NOTYOURS", 10, "100", "0", time.Now().Add(24*time.Hour))

	_, err = f.carts.AddItem(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)

	input := orderInput(user.ID)
	input.VoucherID = &voucher.ID
	_, err = f.orders.CreateOrder(ctx, input)
	require.ErrorIs(t, err, ErrVoucherMinAmount)
	require.Equal(t, 10, f.bookStock(t, book.ID))

	input.VoucherID = &unassigned.ID
	_, err = f.orders.CreateOrder(ctx, input)
	require.ErrorIs(t, err, ErrVoucherNotAssigned)
	require.Equal(t, 10, f.bookStock(t, book.ID))

	held, err := f.store.Vouchers.GetUserVoucher(user.ID, voucher.ID)
	require.NoError(t, err)
	require.False(t, held.IsUsed)
}

func TestCreateOrderRunsPostProcessingInline(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "gina")
	book := f.seedBook(t, "Inline", "40", 3)

	_, err := f.carts.AddItem(ctx, user.ID, book.ID, 1)
	require.NoError(t, err)
	result, err := f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)

	meta, err := f.store.Metadata.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	require.Equal(t, 1, meta.TotalOrders)
	require.Equal(t, "40.00", meta.TotalSpent.String())
	require.True(t, meta.WelcomeVoucherSent)

	var placed int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("user_id = ? AND order_id = ?", user.ID, result.ID).
		Count(&placed).Error)
	require.EqualValues(t, 1, placed)

	held, err := f.vouchers.ListUserVouchers(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
}

func TestWelcomeVoucherOnlyFollowsFirstOrder(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "late-buyer")
	book := f.seedBook(t, "Twice", "20", 5)

	for i := 0; i < 2; i++ {
		_, err := f.carts.AddItem(ctx, user.ID, book.ID, 1)
		require.NoError(t, err)
		_, err = f.orders.CreateOrder(ctx, orderInput(user.ID))
		require.NoError(t, err)
	}
	second, err := f.orders.GetUserOrder(ctx, user.ID, 2)
	require.NoError(t, err)

	// 清掉首单发放的痕迹，再重放第二单的后续处理
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Delete(&models.UserVoucher{}).Error)
	require.NoError(t, f.db.Model(&models.UserMetadata{}).Where("user_id = ?", user.ID).Update("welcome_voucher_sent", false).Error)
	require.NoError(t, f.post.HandleOrderPlaced(ctx, second.Order.ID))

	held, err := f.vouchers.ListUserVouchers(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, held)
	meta, err := f.store.Metadata.Get(user.ID)
	require.NoError(t, err)
	require.False(t, meta.WelcomeVoucherSent)
}

func TestUpdateOrderStateEnforcesTransitions(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "hank")
	book := f.seedBook(t, "Flow", "20", 5)

	_, err := f.carts.AddItem(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)
	result, err := f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderState(ctx, result.ID, models.OrderStateShipped)
	require.ErrorIs(t, err, ErrOrderStateInvalid)
	_, err = f.orders.UpdateOrderState(ctx, result.ID, models.OrderState(42))
	require.ErrorIs(t, err, ErrOrderStateInvalid)
	_, err = f.orders.UpdateOrderState(ctx, 9999, models.OrderStateConfirmed)
	require.ErrorIs(t, err, ErrOrderNotFound)

	for _, next := range []models.OrderState{
		models.OrderStateConfirmed,
		models.OrderStateProcessing,
		models.OrderStateShipped,
		models.OrderStateDelivered,
	} {
		updated, err := f.orders.UpdateOrderState(ctx, result.ID, next)
		require.NoError(t, err)
		require.Equal(t, next, updated.State)
	}
	_, err = f.orders.UpdateOrderState(ctx, result.ID, models.OrderStateCancelled)
	require.ErrorIs(t, err, ErrOrderStateInvalid)

	detail, err := f.orders.GetOrderByID(ctx, result.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Order.DeliveredAt)
	require.Empty(t, detail.NextStates)
	require.Equal(t, 2, detail.ItemCount)

	var notes int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("order_id = ? AND type = ?", result.ID, "order_state").
		Count(&notes).Error)
	require.EqualValues(t, 4, notes)
}

func TestCancelOrderRestocksFrozenLines(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "iris")
	book := f.seedBook(t, "Returned", "20", 5)

	_, err := f.carts.AddItem(ctx, user.ID, book.ID, 3)
	require.NoError(t, err)
	result, err := f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)
	require.Equal(t, 2, f.bookStock(t, book.ID))

	updated, err := f.orders.UpdateOrderState(ctx, result.ID, models.OrderStateCancelled)
	require.NoError(t, err)
	require.Equal(t, models.OrderStateCancelled, updated.State)
	require.NotNil(t, updated.CancelledAt)
	require.Equal(t, 5, f.bookStock(t, book.ID))

	_, err = f.orders.UpdateOrderState(ctx, result.ID, models.OrderStateConfirmed)
	require.ErrorIs(t, err, ErrOrderStateInvalid)
	require.Equal(t, 5, f.bookStock(t, book.ID))
}

func TestCancelWithoutRestockWhenDisabled(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	cfg := f.cfg
	cfg.CancelRestock = false
	orders := NewOrderService(f.store, f.vouchers, nil, nil, cfg)
	user := f.seedUser(t, "jack")
	book := f.seedBook(t, "Label Only", "20", 5)

	_, err := f.carts.AddItem(ctx, user.ID, book.ID, 3)
	require.NoError(t, err)
	result, err := orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)
	_, err = orders.UpdateOrderState(ctx, result.ID, models.OrderStateCancelled)
	require.NoError(t, err)
	require.Equal(t, 2, f.bookStock(t, book.ID))
}

func TestRevenueStatsAndPurchaseEligibility(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "kate")
	delivered := f.seedBook(t, "Delivered", "30", 5)
	pending := f.seedBook(t, "Pending", "15", 5)

	_, err := f.carts.AddItem(ctx, user.ID, delivered.ID, 1)
	require.NoError(t, err)
	first, err := f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, user.ID, pending.ID, 2)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, orderInput(user.ID))
	require.NoError(t, err)

	for _, next := range []models.OrderState{
		models.OrderStateConfirmed,
		models.OrderStateProcessing,
		models.OrderStateShipped,
		models.OrderStateDelivered,
	} {
		_, err := f.orders.UpdateOrderState(ctx, first.ID, next)
		require.NoError(t, err)
	}

	stats, err := f.orders.RevenueStats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.DeliveredOrders)
	require.Equal(t, "30.00", stats.Revenue.String())

	ok, err := f.orders.HasPurchasedBook(ctx, user.ID, delivered.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.orders.HasPurchasedBook(ctx, user.ID, pending.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUserOrderQueries(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "liam")
	other := f.seedUser(t, "mia")
	book := f.seedBook(t, "Listed", "10", 10)

	for i := 0; i < 2; i++ {
		_, err := f.carts.AddItem(ctx, user.ID, book.ID, 1)
		require.NoError(t, err)
		_, err = f.orders.CreateOrder(ctx, orderInput(user.ID))
		require.NoError(t, err)
	}

	orders, total, err := f.orders.ListUserOrders(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, orders, 2)

	detail, err := f.orders.GetUserOrder(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, detail.Order.UserOrderNumber)
	require.Equal(t, "placed", detail.StateLabel)

	_, err = f.orders.GetUserOrder(ctx, other.ID, 2)
	require.ErrorIs(t, err, ErrOrderNotFound)

	placed := models.OrderStatePlaced
	all, total, err := f.orders.ListOrders(ctx, OrderListQuery{Page: 1, PageSize: 1, State: &placed})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, all, 1)
}
