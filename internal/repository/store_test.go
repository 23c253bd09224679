package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return NewStore(db), db
}

func createBook(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Book {
	t.Helper()
	book := &models.Book{Name: name, Price: models.MustMoney(price), Stock: stock}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("create book failed: %v", err)
	}
	return book
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	store, db := setupRepositoryTest(t)
	book := createBook(t, db, "Rollback", "10", 5)

	sentinel := errors.New("boom")
	err := store.WithTransaction(context.Background(), func(tx *Store) error {
		if _, err := tx.Books.DecrementStock(book.ID, 2); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	stock, _, err := store.Books.GetStock(book.ID)
	if err != nil {
		t.Fatalf("get stock failed: %v", err)
	}
	if stock != 5 {
		t.Fatalf("expected stock 5 after rollback, got %d", stock)
	}
}

func TestWithTransactionCommits(t *testing.T) {
	store, db := setupRepositoryTest(t)
	book := createBook(t, db, "Commit", "10", 5)

	err := store.WithTransaction(context.Background(), func(tx *Store) error {
		_, err := tx.Books.DecrementStock(book.ID, 2)
		return err
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
	stock, _, _ := store.Books.GetStock(book.ID)
	if stock != 3 {
		t.Fatalf("expected stock 3, got %d", stock)
	}
}

func TestDecrementStockIsConditional(t *testing.T) {
	store, db := setupRepositoryTest(t)
	book := createBook(t, db, "Conditional", "10", 2)

	affected, err := store.Books.DecrementStock(book.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected no rows affected when stock is short, got %d", affected)
	}
	affected, err = store.Books.DecrementStock(book.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("expected exact decrement to succeed: affected=%d err=%v", affected, err)
	}
	stock, found, err := store.Books.GetStock(book.ID)
	if err != nil || !found || stock != 0 {
		t.Fatalf("unexpected stock state: stock=%d found=%v err=%v", stock, found, err)
	}
	if _, err := store.Books.DecrementStock(book.ID, 0); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := store.Books.SetStock(book.ID, -1); err == nil {
		t.Fatalf("expected error for negative stock")
	}
	if _, found, _ := store.Books.GetStock(404); found {
		t.Fatalf("missing book should not be found")
	}
}

func TestDeleteZeroStockLines(t *testing.T) {
	store, db := setupRepositoryTest(t)
	zeroA := createBook(t, db, "Zero A", "10", 0)
	inStock := createBook(t, db, "In Stock", "10", 5)
	zeroB := createBook(t, db, "Zero B", "10", 0)

	cart := &models.Cart{UserID: 1}
	if err := store.Carts.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	for _, bookID := range []uint{zeroA.ID, inStock.ID, zeroB.ID, zeroA.ID} {
		if err := store.Carts.CreateLine(&models.CartLine{CartID: cart.ID, BookID: bookID, Amount: 1}); err != nil {
			t.Fatalf("create line failed: %v", err)
		}
	}

	removed, err := store.Carts.DeleteZeroStockLines(cart.ID)
	if err != nil {
		t.Fatalf("delete zero stock lines failed: %v", err)
	}
	if len(removed) != 2 || removed[0] != zeroA.ID || removed[1] != zeroB.ID {
		t.Fatalf("unexpected removed book ids: %v", removed)
	}
	lines, err := store.Carts.ListLines(cart.ID)
	if err != nil {
		t.Fatalf("list lines failed: %v", err)
	}
	if len(lines) != 1 || lines[0].BookID != inStock.ID {
		t.Fatalf("unexpected remaining lines: %+v", lines)
	}
}

func TestListLineViewsJoinsBooks(t *testing.T) {
	store, db := setupRepositoryTest(t)
	book := createBook(t, db, "Joined", "12.50", 7)
	cart := &models.Cart{UserID: 1}
	if err := store.Carts.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := store.Carts.CreateLine(&models.CartLine{CartID: cart.ID, BookID: book.ID, Amount: 2}); err != nil {
		t.Fatalf("create line failed: %v", err)
	}

	views, err := store.Carts.ListLineViews(cart.ID)
	if err != nil {
		t.Fatalf("list line views failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one view, got %d", len(views))
	}
	view := views[0]
	if view.BookName != "Joined" || view.Stock != 7 || view.Amount != 2 || view.Price.String() != "12.50" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestOrderNumbersAndConditionalStateUpdate(t *testing.T) {
	store, _ := setupRepositoryTest(t)

	next, err := store.Orders.NextUserOrderNumber(1)
	if err != nil || next != 1 {
		t.Fatalf("expected first number 1: next=%d err=%v", next, err)
	}
	order := &models.Order{
		UserID:          1,
		UserOrderNumber: next,
		CartID:          1,
		State:           models.OrderStatePlaced,
		Name:            "n",
		Phone1:          "p",
		Address:         "a",
		SubtotalPrice:   models.MustMoney("10"),
		DiscountAmount:  models.ZeroMoney(),
		TotalPrice:      models.MustMoney("10"),
	}
	if err := store.Orders.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	next, _ = store.Orders.NextUserOrderNumber(1)
	if next != 2 {
		t.Fatalf("expected next number 2, got %d", next)
	}
	if other, _ := store.Orders.NextUserOrderNumber(2); other != 1 {
		t.Fatalf("numbers should be per user, got %d", other)
	}

	affected, err := store.Orders.UpdateState(order.ID, models.OrderStateConfirmed, models.OrderStateProcessing, time.Now())
	if err != nil || affected != 0 {
		t.Fatalf("stale from-state should not update: affected=%d err=%v", affected, err)
	}
	affected, err = store.Orders.UpdateState(order.ID, models.OrderStatePlaced, models.OrderStateCancelled, time.Now())
	if err != nil || affected != 1 {
		t.Fatalf("expected state update: affected=%d err=%v", affected, err)
	}
	reloaded, _ := store.Orders.GetByID(order.ID)
	if reloaded.State != models.OrderStateCancelled || reloaded.CancelledAt == nil {
		t.Fatalf("unexpected order after cancel: %+v", reloaded)
	}
}

func TestVoucherMarkUsedOnlyOnce(t *testing.T) {
	store, _ := setupRepositoryTest(t)
	voucher := &models.Voucher{
		Name:            "once",
		DiscountPercent: 5,
		MaxDiscount:     models.ZeroMoney(),
		MinOrderAmount:  models.ZeroMoney(),
		ValidUntil:      time.Now().Add(time.Hour),
	}
	if err := store.Vouchers.Create(voucher); err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	if voucher.Name != "ONCE" {
		t.Fatalf("voucher name should be upper-cased, got %s", voucher.Name)
	}
	if _, err := store.Vouchers.AssignToUser(1, voucher.ID, time.Now()); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := store.Vouchers.AssignToUser(1, voucher.ID, time.Now()); err != nil {
		t.Fatalf("re-assign should be a no-op: %v", err)
	}

	first, err := store.Vouchers.MarkUsed(1, voucher.ID, 10, time.Now())
	if err != nil || first != 1 {
		t.Fatalf("expected first mark to succeed: affected=%d err=%v", first, err)
	}
	second, err := store.Vouchers.MarkUsed(1, voucher.ID, 11, time.Now())
	if err != nil || second != 0 {
		t.Fatalf("expected second mark to be rejected: affected=%d err=%v", second, err)
	}
	found, _ := store.Vouchers.GetByName(" once ")
	if found == nil || found.ID != voucher.ID {
		t.Fatalf("lookup by name should be case-insensitive")
	}
}
