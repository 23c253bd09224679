package service

import (
	"context"

	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// CartItemView 购物车行项目（用于响应）
type CartItemView struct {
	LineID    uint         `json:"line_id"`
	BookID    uint         `json:"book_id"`
	BookName  string       `json:"book_name"`
	UnitPrice models.Money `json:"unit_price"`
	Amount    int          `json:"amount"`
	LineTotal models.Money `json:"line_total"`
	Stock     int          `json:"stock"`
}

// CartTotal 购物车汇总
type CartTotal struct {
	Price     models.Money `json:"price"`
	ItemCount int          `json:"item_count"`
}

// CartItemUpdate 购物车批量更新输入
type CartItemUpdate struct {
	LineID uint `json:"line_id"`
	BookID uint `json:"book_id"`
	Amount int  `json:"amount"`
}

// WelcomeVoucherGranter 首次建车时发放欢迎券
type WelcomeVoucherGranter interface {
	GrantWelcomeVoucher(ctx context.Context, userID uint) error
}

// CartService 购物车服务
type CartService struct {
	store   *repository.Store
	welcome WelcomeVoucherGranter
}

// NewCartService 创建购物车服务
func NewCartService(store *repository.Store, welcome WelcomeVoucherGranter) *CartService {
	return &CartService{
		store:   store,
		welcome: welcome,
	}
}

// EnsureCart 获取用户当前购物车，不存在时创建
func (s *CartService) EnsureCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := s.withCart(ctx, userID, func(_ *repository.Store, current *models.Cart) error {
		cart = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem 加入购物车
// 已有同书行项目（含重复行合计）时累加数量，合计不得超过库存；新增行同样以库存为上限。
func (s *CartService) AddItem(ctx context.Context, userID, bookID uint, amount int) (*models.CartLine, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var result *models.CartLine
	err := s.withCart(ctx, userID, func(tx *repository.Store, cart *models.Cart) error {
		book, err := tx.Books.GetByID(bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}
		if !book.Orderable() {
			return ErrOutOfStock
		}

		// 先合并重复行，否则库存校验只看到其中一行
		if _, err := consolidateCart(tx, cart.ID); err != nil {
			return err
		}
		line, err := tx.Carts.GetLineByBook(cart.ID, bookID)
		if err != nil {
			return err
		}
		if line != nil {
			total := line.Amount + amount
			if total > book.Stock {
				return &StockExceededError{BookID: bookID, Available: book.Stock}
			}
			if _, err := tx.Carts.UpdateLineAmount(line.ID, total); err != nil {
				return err
			}
			line.Amount = total
			result = line
			return nil
		}

		if amount > book.Stock {
			return &StockExceededError{BookID: bookID, Available: book.Stock}
		}
		line = &models.CartLine{
			CartID: cart.ID,
			BookID: bookID,
			Amount: amount,
		}
		if err := tx.Carts.CreateLine(line); err != nil {
			return err
		}
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateAmount 直接覆盖行项目数量，库存校验由调用方负责
func (s *CartService) UpdateAmount(ctx context.Context, lineID uint, newAmount int) error {
	if newAmount < 1 {
		return ErrInvalidAmount
	}
	affected, err := s.store.WithContext(ctx).Carts.UpdateLineAmount(lineID, newAmount)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// UpdateItems 购物车页批量更新数量，逐行校验库存后整体提交
func (s *CartService) UpdateItems(ctx context.Context, userID uint, items []CartItemUpdate) error {
	if len(items) == 0 {
		return nil
	}
	return s.withCart(ctx, userID, func(tx *repository.Store, cart *models.Cart) error {
		for _, item := range items {
			if item.Amount < 1 {
				return ErrInvalidAmount
			}
			line, err := tx.Carts.GetLine(item.LineID)
			if err != nil {
				return err
			}
			if line == nil || line.CartID != cart.ID {
				return ErrCartLineNotFound
			}
			if item.BookID != 0 && item.BookID != line.BookID {
				return ErrCartLineNotFound
			}
			stock, found, err := tx.Books.GetStock(line.BookID)
			if err != nil {
				return err
			}
			if !found {
				return ErrBookNotFound
			}
			if item.Amount > stock {
				return &StockExceededError{BookID: line.BookID, Available: stock}
			}
			if _, err := tx.Carts.UpdateLineAmount(line.ID, item.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveItem 删除购物车中某本书
func (s *CartService) RemoveItem(ctx context.Context, userID, bookID uint) error {
	return s.withCart(ctx, userID, func(tx *repository.Store, cart *models.Cart) error {
		affected, err := tx.Carts.DeleteLinesByBook(cart.ID, bookID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCartLineNotFound
		}
		return nil
	})
}

// ConsolidateDuplicates 合并用户购物车中的重复行项目，返回被合并删除的行数
func (s *CartService) ConsolidateDuplicates(ctx context.Context, userID uint) (int, error) {
	merged := 0
	err := s.withCart(ctx, userID, func(tx *repository.Store, cart *models.Cart) error {
		n, err := consolidateCart(tx, cart.ID)
		merged = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return merged, nil
}

// ConsolidateCart 按购物车ID合并重复行项目
func (s *CartService) ConsolidateCart(ctx context.Context, cartID uint) (int, error) {
	merged := 0
	err := s.store.WithTransaction(ctx, func(tx *repository.Store) error {
		cart, err := tx.Carts.LockByID(cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		n, err := consolidateCart(tx, cart.ID)
		merged = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return merged, nil
}

func consolidateCart(tx *repository.Store, cartID uint) (int, error) {
	lines, err := tx.Carts.ListLines(cartID)
	if err != nil {
		return 0, err
	}
	updates, deleteIDs := MergeDuplicateLines(lines)
	if len(deleteIDs) == 0 {
		return 0, nil
	}
	for _, update := range updates {
		if _, err := tx.Carts.UpdateLineAmount(update.LineID, update.Amount); err != nil {
			return 0, err
		}
	}
	if _, err := tx.Carts.DeleteLines(deleteIDs); err != nil {
		return 0, err
	}
	return len(deleteIDs), nil
}

// GetItemsInCart 获取购物车行项目（读取前先合并重复行）
func (s *CartService) GetItemsInCart(ctx context.Context, userID uint) ([]CartItemView, error) {
	cart, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ConsolidateCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	rows, err := s.store.WithContext(ctx).Carts.ListLineViews(cart.ID)
	if err != nil {
		return nil, err
	}
	items := make([]CartItemView, 0, len(rows))
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
	}
	return items, nil
}

// GetTotal 计算购物车总价与件数，空购物车返回零值
func (s *CartService) GetTotal(ctx context.Context, cartID uint) (CartTotal, error) {
	if _, err := s.ConsolidateCart(ctx, cartID); err != nil {
		return CartTotal{}, err
	}
	rows, err := s.store.WithContext(ctx).Carts.ListLineViews(cartID)
	if err != nil {
		return CartTotal{}, err
	}
	return sumCartLines(rows), nil
}

func sumCartLines(rows []repository.CartLineView) CartTotal {
	total := CartTotal{Price: models.ZeroMoney()}
	for _, row := range rows {
		total.Price = total.Price.Add(row.Price.MulInt(row.Amount))
		total.ItemCount += row.Amount
	}
	return total
}

// withCart 在事务内锁定用户与当前购物车后执行回调
func (s *CartService) withCart(ctx context.Context, userID uint, fn func(tx *repository.Store, cart *models.Cart) error) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	firstCart := false
	err := s.store.WithTransaction(ctx, func(tx *repository.Store) error {
		cart, first, err := ensureUserCart(tx, userID)
		if err != nil {
			return err
		}
		firstCart = first
		return fn(tx, cart)
	})
	if err != nil {
		return err
	}
	if firstCart && s.welcome != nil {
		if err := s.welcome.GrantWelcomeVoucher(ctx, userID); err != nil {
			logger.Warnw("cart_grant_welcome_voucher_failed",
				"user_id", userID,
				"error", err,
			)
		}
	}
	return nil
}

// ensureUserCart 返回用户当前购物车，必要时新建并更新反向引用
// 第二个返回值表示是否为该用户的首个购物车。
func ensureUserCart(tx *repository.Store, userID uint) (*models.Cart, bool, error) {
	user, err := tx.Users.LockByID(userID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}
	if user.CartID != nil {
		cart, err := tx.Carts.LockByID(*user.CartID)
		if err != nil {
			return nil, false, err
		}
		if cart != nil && cart.UserID == userID {
			return cart, false, nil
		}
	}
	cart, err := issueCart(tx, userID)
	if err != nil {
		return nil, false, err
	}
	return cart, user.CartID == nil, nil
}

// issueCart 创建新购物车并更新用户反向引用
func issueCart(tx *repository.Store, userID uint) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	if err := tx.Carts.Create(cart); err != nil {
		return nil, err
	}
	if err := tx.Users.SetCartID(userID, cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}
