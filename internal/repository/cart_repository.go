package repository

import (
	"errors"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByID(cartID uint) (*models.Cart, error)
	LockByID(cartID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	ListLines(cartID uint) ([]models.CartLine, error)
	ListLineViews(cartID uint) ([]CartLineView, error)
	GetLine(lineID uint) (*models.CartLine, error)
	GetLineByBook(cartID, bookID uint) (*models.CartLine, error)
	CreateLine(line *models.CartLine) error
	UpdateLineAmount(lineID uint, amount int) (int64, error)
	DeleteLines(lineIDs []uint) (int64, error)
	DeleteLinesByBook(cartID, bookID uint) (int64, error)
	DeleteZeroStockLines(cartID uint) ([]uint, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByID 获取购物车
func (r *GormCartRepository) GetByID(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// LockByID 在事务内锁定购物车行，串行化同一购物车的写操作
func (r *GormCartRepository) LockByID(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// ListLines 按 ID 升序列出行项目
func (r *GormCartRepository) ListLines(cartID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Where("cart_id = ?", cartID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ListLineViews 列出行项目并带出图书名称、单价与实时库存
func (r *GormCartRepository) ListLineViews(cartID uint) ([]CartLineView, error) {
	var rows []CartLineView
	err := r.db.Table("cart_lines AS cl").
		Select("cl.id AS line_id, cl.book_id AS book_id, b.name AS book_name, b.price AS price, b.stock AS stock, cl.amount AS amount").
		Joins("JOIN books AS b ON b.id = cl.book_id").
		Where("cl.cart_id = ?", cartID).
		Order("cl.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLine 获取单个行项目
func (r *GormCartRepository) GetLine(lineID uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.First(&line, lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// GetLineByBook 获取同一本书 ID 最小的行项目
func (r *GormCartRepository) GetLineByBook(cartID, bookID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("cart_id = ? AND book_id = ?", cartID, bookID).Order("id ASC").First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// CreateLine 新增行项目
func (r *GormCartRepository) CreateLine(line *models.CartLine) error {
	return r.db.Create(line).Error
}

// UpdateLineAmount 覆盖行项目数量
func (r *GormCartRepository) UpdateLineAmount(lineID uint, amount int) (int64, error) {
	result := r.db.Model(&models.CartLine{}).Where("id = ?", lineID).Update("amount", amount)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteLines 批量删除行项目
func (r *GormCartRepository) DeleteLines(lineIDs []uint) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", lineIDs).Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteLinesByBook 删除购物车内某本书的全部行项目
func (r *GormCartRepository) DeleteLinesByBook(cartID, bookID uint) (int64, error) {
	result := r.db.Where("cart_id = ? AND book_id = ?", cartID, bookID).Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteZeroStockLines 删除库存为 0 的图书对应的行项目，返回被移除的图书ID
// 需在事务内调用，查询与删除共用同一快照。
func (r *GormCartRepository) DeleteZeroStockLines(cartID uint) ([]uint, error) {
	var rows []struct {
		ID     uint
		BookID uint
	}
	err := r.db.Table("cart_lines AS cl").
		Select("cl.id AS id, cl.book_id AS book_id").
		Joins("JOIN books AS b ON b.id = cl.book_id").
		Where("cl.cart_id = ? AND b.stock <= 0", cartID).
		Order("cl.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []uint{}, nil
	}

	lineIDs := make([]uint, 0, len(rows))
	bookIDs := make([]uint, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		lineIDs = append(lineIDs, row.ID)
		if _, ok := seen[row.BookID]; ok {
			continue
		}
		seen[row.BookID] = struct{}{}
		bookIDs = append(bookIDs, row.BookID)
	}
	if _, err := r.DeleteLines(lineIDs); err != nil {
		return nil, err
	}
	return bookIDs, nil
}
