package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookstore-next/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCartGetTotalSumsLines(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice")
	b1 := f.seedBook(t, "Go in Action", "10", 5)
	b2 := f.seedBook(t, "The Pragmatic Programmer", "5", 5)

	_, err := f.carts.AddItem(ctx, user.ID, b1.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, user.ID, b2.ID, 1)
	require.NoError(t, err)

	cart, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	total, err := f.carts.GetTotal(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, "25.00", total.Price.String())
	require.Equal(t, 3, total.ItemCount)
}

func TestCartGetTotalEmptyCart(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "empty")

	cart, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	total, err := f.carts.GetTotal(ctx, cart.ID)
	require.NoError(t, err)
	require.True(t, total.Price.IsZero())
	require.Equal(t, 0, total.ItemCount)
}

func TestEnsureCartSetsBackReference(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "bob")

	first, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	second, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var reloaded models.User
	require.NoError(t, f.db.First(&reloaded, user.ID).Error)
	require.NotNil(t, reloaded.CartID)
	require.Equal(t, first.ID, *reloaded.CartID)

	_, err = f.carts.EnsureCart(ctx, 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddItemExistingLineExceedsStock(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "carol")
	book := f.seedBook(t, "SICP", "30", 5)

	line, err := f.carts.AddItem(ctx, user.ID, book.ID, 3)
	require.NoError(t, err)

	_, err = f.carts.AddItem(ctx, user.ID, book.ID, 4)
	require.ErrorIs(t, err, ErrStockExceeded)
	var exceeded *StockExceededError
	require.True(t, errors.As(err, &exceeded))
	require.Equal(t, 5, exceeded.Available)

	var reloaded models.CartLine
	require.NoError(t, f.db.First(&reloaded, line.ID).Error)
	require.Equal(t, 3, reloaded.Amount)
}

func TestAddItemCountsDuplicateLinesAgainstStock(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "dup-adder")
	book := f.seedBook(t, "Refactoring", "40", 5)
	cart, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	f.forceLine(t, cart.ID, book.ID, 3)
	f.forceLine(t, cart.ID, book.ID, 2)

	_, err = f.carts.AddItem(ctx, user.ID, book.ID, 2)
	var exceeded *StockExceededError
	require.True(t, errors.As(err, &exceeded), "got %v", err)
	require.Equal(t, 5, exceeded.Available)

	var amounts []int
	require.NoError(t, f.db.Model(&models.CartLine{}).Where("cart_id = ? AND book_id = ?", cart.ID, book.ID).Pluck("amount", &amounts).Error)
	sum := 0
	for _, a := range amounts {
		sum += a
	}
	require.Equal(t, 5, sum)

	require.NoError(t, f.db.Model(&models.Book{}).Where("id = ?", book.ID).Update("stock", 10).Error)
	line, err := f.carts.AddItem(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 7, line.Amount)
	var count int64
	require.NoError(t, f.db.Model(&models.CartLine{}).Where("cart_id = ? AND book_id = ?", cart.ID, book.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemMergesIntoExistingLine(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "dave")
	book := f.seedBook(t, "TAOCP", "99", 10)

	first, err := f.carts.AddItem(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)
	second, err := f.carts.AddItem(ctx, user.ID, book.ID, 3)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 5, second.Amount)

	var count int64
	require.NoError(t, f.db.Model(&models.CartLine{}).Where("book_id = ?", book.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemFirstInsertCappedAtStock(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "erin")
	book := f.seedBook(t, "Refactoring", "40", 2)

	_, err := f.carts.AddItem(ctx, user.ID, book.ID, 3)
	var exceeded *StockExceededError
	require.True(t, errors.As(err, &exceeded))
	require.Equal(t, 2, exceeded.Available)

	var count int64
	require.NoError(t, f.db.Model(&models.CartLine{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestAddItemRejectsMissingAndSoldOutBooks(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "frank")
	soldOut := f.seedBook(t, "Sold Out", "12", 0)

	_, err := f.carts.AddItem(ctx, user.ID, 4242, 1)
	require.ErrorIs(t, err, ErrBookNotFound)
	_, err = f.carts.AddItem(ctx, user.ID, soldOut.ID, 1)
	require.ErrorIs(t, err, ErrOutOfStock)
	_, err = f.carts.AddItem(ctx, user.ID, soldOut.ID, 0)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestConsolidateDuplicatesIsIdempotent(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "grace")
	b1 := f.seedBook(t, "Book One", "10", 20)
	b2 := f.seedBook(t, "Book Two", "4", 20)

	cart, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	keep := f.forceLine(t, cart.ID, b1.ID, 1)
	f.forceLine(t, cart.ID, b1.ID, 2)
	f.forceLine(t, cart.ID, b2.ID, 1)
	f.forceLine(t, cart.ID, b1.ID, 3)

	merged, err := f.carts.ConsolidateDuplicates(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, merged)
	totalAfterFirst, err := f.carts.GetTotal(ctx, cart.ID)
	require.NoError(t, err)

	merged, err = f.carts.ConsolidateDuplicates(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, merged)
	totalAfterSecond, err := f.carts.GetTotal(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, totalAfterFirst, totalAfterSecond)
	require.Equal(t, "64.00", totalAfterSecond.Price.String())

	var lines []models.CartLine
	require.NoError(t, f.db.Where("cart_id = ?", cart.ID).Order("id ASC").Find(&lines).Error)
	require.Len(t, lines, 2)
	require.Equal(t, keep.ID, lines[0].ID)
	require.Equal(t, 6, lines[0].Amount)
}

func TestGetItemsInCartConsolidatesFirst(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "heidi")
	book := f.seedBook(t, "Dup", "7.5", 9)

	cart, err := f.carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	f.forceLine(t, cart.ID, book.ID, 1)
	f.forceLine(t, cart.ID, book.ID, 1)

	items, err := f.carts.GetItemsInCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Amount)
	require.Equal(t, "15.00", items[0].LineTotal.String())
	require.Equal(t, 9, items[0].Stock)
}

func TestUpdateItemsChecksStockAndRollsBack(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "ivan")
	b1 := f.seedBook(t, "Plenty", "10", 10)
	b2 := f.seedBook(t, "Scarce", "10", 2)

	l1, err := f.carts.AddItem(ctx, user.ID, b1.ID, 1)
	require.NoError(t, err)
	l2, err := f.carts.AddItem(ctx, user.ID, b2.ID, 1)
	require.NoError(t, err)

	err = f.carts.UpdateItems(ctx, user.ID, []CartItemUpdate{
		{LineID: l1.ID, Amount: 8},
		{LineID: l2.ID, Amount: 3},
	})
	require.ErrorIs(t, err, ErrStockExceeded)

	var reloaded models.CartLine
	require.NoError(t, f.db.First(&reloaded, l1.ID).Error)
	require.Equal(t, 1, reloaded.Amount)

	require.NoError(t, f.carts.UpdateItems(ctx, user.ID, []CartItemUpdate{
		{LineID: l1.ID, BookID: b1.ID, Amount: 8},
		{LineID: l2.ID, Amount: 2},
	}))
	require.NoError(t, f.db.First(&reloaded, l1.ID).Error)
	require.Equal(t, 8, reloaded.Amount)
}

func TestUpdateItemsRejectsForeignLine(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	owner := f.seedUser(t, "judy")
	other := f.seedUser(t, "mallory")
	book := f.seedBook(t, "Private", "10", 10)

	line, err := f.carts.AddItem(ctx, owner.ID, book.ID, 1)
	require.NoError(t, err)

	err = f.carts.UpdateItems(ctx, other.ID, []CartItemUpdate{{LineID: line.ID, Amount: 2}})
	require.ErrorIs(t, err, ErrCartLineNotFound)
}

func TestUpdateAmountAndRemoveItem(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	user := f.seedUser(t, "ken")
	book := f.seedBook(t, "Removable", "10", 10)

	line, err := f.carts.AddItem(ctx, user.ID, book.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.UpdateAmount(ctx, line.ID, 4))
	require.ErrorIs(t, f.carts.UpdateAmount(ctx, line.ID, 0), ErrInvalidAmount)
	require.ErrorIs(t, f.carts.UpdateAmount(ctx, 9999, 1), ErrCartLineNotFound)

	require.NoError(t, f.carts.RemoveItem(ctx, user.ID, book.ID))
	require.ErrorIs(t, f.carts.RemoveItem(ctx, user.ID, book.ID), ErrCartLineNotFound)
}

func TestFirstCartGrantsWelcomeVoucherOnce(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	carts := NewCartService(f.store, f.vouchers)
	user := f.seedUser(t, "leo")

	_, err := carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = carts.EnsureCart(ctx, user.ID)
	require.NoError(t, err)

	held, err := f.vouchers.ListUserVouchers(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	require.NotNil(t, held[0].Voucher)
	require.Equal(t, "WELCOME10", held[0].Voucher.Name)
	require.True(t, held[0].Voucher.ValidUntil.After(time.Now().AddDate(0, 11, 0)))
}
