package service

import (
	"context"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// StockService 库存台账服务
// 图书库存只允许通过本服务修改。
type StockService struct {
	store             *repository.Store
	lowStockThreshold int
}

// NewStockService 创建库存服务
func NewStockService(store *repository.Store, lowStockThreshold int) *StockService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = constants.DefaultLowStockThreshold
	}
	return &StockService{
		store:             store,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetStock 查询当前可售库存
func (s *StockService) GetStock(ctx context.Context, bookID uint) (int, error) {
	if bookID == 0 {
		return 0, ErrBookNotFound
	}
	stock, found, err := s.store.WithContext(ctx).Books.GetStock(bookID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrBookNotFound
	}
	return stock, nil
}

// Decrement 在事务内条件扣减库存
// 库存不足时返回 InsufficientStockError，调用方负责回滚事务。
func (s *StockService) Decrement(tx *repository.Store, bookID uint, amount int) error {
	return decrementStock(tx.Books, bookID, amount)
}

func decrementStock(books repository.BookRepository, bookID uint, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	affected, err := books.DecrementStock(bookID, amount)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	available, found, err := books.GetStock(bookID)
	if err != nil {
		return err
	}
	if !found {
		return ErrBookNotFound
	}
	return &InsufficientStockError{BookID: bookID, Available: available, Requested: amount}
}

// Restock 管理端补货（增加库存）
func (s *StockService) Restock(ctx context.Context, bookID uint, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	var stock int
	err := s.store.WithTransaction(ctx, func(tx *repository.Store) error {
		affected, err := tx.Books.IncrementStock(bookID, amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBookNotFound
		}
		current, _, err := tx.Books.GetStock(bookID)
		if err != nil {
			return err
		}
		stock = current
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// UpdateStock 管理端直接设置库存
func (s *StockService) UpdateStock(ctx context.Context, bookID uint, newStock int) error {
	if newStock < 0 {
		return ErrStockInvalid
	}
	if bookID == 0 {
		return ErrBookNotFound
	}
	store := s.store.WithContext(ctx)
	book, err := store.Books.GetByID(bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}
	if book.Stock == newStock {
		return nil
	}
	_, err = store.Books.SetStock(bookID, newStock)
	return err
}

// ListLowStock 列出库存低于阈值的图书（补货列表）
func (s *StockService) ListLowStock(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	threshold := s.lowStockThreshold
	if pageSize <= 0 {
		pageSize = constants.DefaultRestockPageSize
	}
	return s.store.WithContext(ctx).Books.List(repository.BookListFilter{
		Page:     page,
		PageSize: pageSize,
		MaxStock: &threshold,
	})
}

// ListOrderable 列出可下单图书（库存大于 0）
func (s *StockService) ListOrderable(ctx context.Context, search string, page, pageSize int) ([]models.Book, int64, error) {
	return s.store.WithContext(ctx).Books.List(repository.BookListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        search,
		OnlyOrderable: true,
	})
}

// InventoryStats 库存统计，低库存阈值取配置
func (s *StockService) InventoryStats(ctx context.Context) (repository.InventoryStats, error) {
	return s.store.WithContext(ctx).Books.InventoryStats(s.lowStockThreshold)
}

// LowStockThreshold 当前补货阈值
func (s *StockService) LowStockThreshold() int {
	return s.lowStockThreshold
}
