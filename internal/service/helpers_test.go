package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db       *gorm.DB
	store    *repository.Store
	cfg      config.StoreConfig
	stock    *StockService
	vouchers *VoucherService
	notify   *NotificationService
	carts    *CartService
	validate *CartValidator
	post     *PostOrderService
	orders   *OrderService
}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db), "migrate models")

	cfg := config.DefaultStoreConfig()
	store := repository.NewStore(db)
	f := &serviceFixture{db: db, store: store, cfg: cfg}
	f.stock = NewStockService(store, cfg.LowStockThreshold)
	f.vouchers = NewVoucherService(store, cfg)
	f.notify = NewNotificationService(store)
	f.carts = NewCartService(store, nil)
	f.validate = NewCartValidator(store)
	f.post = NewPostOrderService(store, f.vouchers, f.notify)
	f.orders = NewOrderService(store, f.vouchers, nil, f.post, cfg)
	return f
}

func (f *serviceFixture) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Status: "active"}
	require.NoError(t, f.db.Create(user).Error, "create user")
	return user
}

func (f *serviceFixture) seedBook(t *testing.T, name, price string, stock int) *models.Book {
	t.Helper()
	book := &models.Book{Name: name, Price: models.MustMoney(price), Stock: stock}
	require.NoError(t, f.db.Create(book).Error, "create book")
	return book
}

func (f *serviceFixture) seedVoucher(t *testing.T, name string, percent int, maxDiscount, minAmount string, validUntil time.Time) *models.Voucher {
	t.Helper()
	voucher := &models.Voucher{
		Name:            name,
		DiscountPercent: percent,
		MaxDiscount:     models.MustMoney(maxDiscount),
		MinOrderAmount:  models.MustMoney(minAmount),
		ValidUntil:      validUntil,
	}
	require.NoError(t, f.db.Create(voucher).Error, "create voucher")
	return voucher
}

// forceLine 绕过服务层直接写入行项目（模拟并发插入或库存变化后的旧数据）
func (f *serviceFixture) forceLine(t *testing.T, cartID, bookID uint, amount int) *models.CartLine {
	t.Helper()
	line := &models.CartLine{CartID: cartID, BookID: bookID, Amount: amount}
	require.NoError(t, f.db.Create(line).Error, "create cart line")
	return line
}

func (f *serviceFixture) bookStock(t *testing.T, bookID uint) int {
	t.Helper()
	var book models.Book
	require.NoError(t, f.db.First(&book, bookID).Error)
	return book.Stock
}

func (f *serviceFixture) advanceOrder(t *testing.T, orderID uint, to models.OrderState) {
	t.Helper()
	for next := models.OrderStateConfirmed; next <= to; next++ {
		_, err := f.orders.UpdateOrderState(context.Background(), orderID, next)
		require.NoError(t, err, "advance order to %d", next)
	}
}
