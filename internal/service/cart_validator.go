package service

import (
	"context"

	"github.com/bookstore-next/internal/repository"
)

// StockIssue 库存不足的行项目
type StockIssue struct {
	BookID    uint   `json:"book_id"`
	BookName  string `json:"book_name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// CartValidation 购物车库存校验结果（仅供参考，下单时以事务内扣减为准）
type CartValidation struct {
	IsValid     bool         `json:"is_valid"`
	StockIssues []StockIssue `json:"stock_issues"`
}

// CartValidator 购物车库存校验
type CartValidator struct {
	store *repository.Store
}

// NewCartValidator 创建购物车校验器
func NewCartValidator(store *repository.Store) *CartValidator {
	return &CartValidator{store: store}
}

// Validate 对比每本书的请求数量与实时库存
func (v *CartValidator) Validate(ctx context.Context, cartID uint) (*CartValidation, error) {
	rows, err := v.store.WithContext(ctx).Carts.ListLineViews(cartID)
	if err != nil {
		return nil, err
	}
	return evaluateStock(rows), nil
}

func evaluateStock(rows []repository.CartLineView) *CartValidation {
	requested := make(map[uint]int, len(rows))
	first := make(map[uint]repository.CartLineView, len(rows))
	order := make([]uint, 0, len(rows))
	for _, row := range rows {
		if _, ok := first[row.BookID]; !ok {
			first[row.BookID] = row
			order = append(order, row.BookID)
		}
		requested[row.BookID] += row.Amount
	}

	issues := make([]StockIssue, 0)
	for _, bookID := range order {
		row := first[bookID]
		if requested[bookID] > row.Stock {
			issues = append(issues, StockIssue{
				BookID:    bookID,
				BookName:  row.BookName,
				Requested: requested[bookID],
				Available: row.Stock,
			})
		}
	}
	return &CartValidation{
		IsValid:     len(issues) == 0,
		StockIssues: issues,
	}
}

// PruneUnavailable 删除库存为 0 的图书对应的行项目，返回被移除的图书ID
func (v *CartValidator) PruneUnavailable(ctx context.Context, cartID uint) ([]uint, error) {
	var removed []uint
	err := v.store.WithTransaction(ctx, func(tx *repository.Store) error {
		ids, err := tx.Carts.DeleteZeroStockLines(cartID)
		if err != nil {
			return err
		}
		removed = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
