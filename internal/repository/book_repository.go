package repository

import (
	"errors"
	"strings"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// BookRepository 图书与库存数据访问接口
type BookRepository interface {
	GetByID(id uint) (*models.Book, error)
	ListByIDs(ids []uint) ([]models.Book, error)
	List(filter BookListFilter) ([]models.Book, int64, error)
	Create(book *models.Book) error
	GetStock(id uint) (int, bool, error)
	DecrementStock(id uint, amount int) (int64, error)
	IncrementStock(id uint, amount int) (int64, error)
	SetStock(id uint, stock int) (int64, error)
	InventoryStats(lowStockThreshold int) (InventoryStats, error)
	WithTx(tx *gorm.DB) BookRepository
}

// GormBookRepository GORM 实现
type GormBookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓库
func NewBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBookRepository) WithTx(tx *gorm.DB) BookRepository {
	if tx == nil {
		return r
	}
	return &GormBookRepository{db: tx}
}

// GetByID 获取图书，不存在时返回 nil
func (r *GormBookRepository) GetByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// ListByIDs 批量获取图书
func (r *GormBookRepository) ListByIDs(ids []uint) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	var books []models.Book
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// List 图书列表
func (r *GormBookRepository) List(filter BookListFilter) ([]models.Book, int64, error) {
	query := r.db.Model(&models.Book{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"books.name", "authors.name", "publishers.name"})
		query = query.
			Joins("LEFT JOIN authors ON authors.id = books.author_id").
			Joins("LEFT JOIN publishers ON publishers.id = books.publisher_id").
			Where(condition, repeatLikeArgs(likePattern(search), argCount)...)
	}
	if filter.MaxStock != nil {
		query = query.Where("books.stock < ?", *filter.MaxStock)
	}
	if filter.OnlyOrderable {
		query = query.Where("books.stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "books.id ASC"
	if filter.MaxStock != nil {
		order = "books.stock ASC, books.id ASC"
	}
	var books []models.Book
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).
		Select("books.*").
		Preload("Author").
		Preload("Publisher").
		Order(order).
		Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Create 创建图书
func (r *GormBookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

// GetStock 读取当前库存，第二个返回值表示图书是否存在
func (r *GormBookRepository) GetStock(id uint) (int, bool, error) {
	var row struct {
		Stock int
	}
	result := r.db.Model(&models.Book{}).Select("stock").Where("id = ?", id).Limit(1).Scan(&row)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return row.Stock, true, nil
}

// DecrementStock 条件扣减库存（库存充足才扣减），返回受影响行数
func (r *GormBookRepository) DecrementStock(id uint, amount int) (int64, error) {
	if id == 0 || amount <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Book{}).
		Where("id = ? AND stock >= ?", id, amount).
		Update("stock", gorm.Expr("stock - ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock 增加库存，返回受影响行数
func (r *GormBookRepository) IncrementStock(id uint, amount int) (int64, error) {
	if id == 0 || amount <= 0 {
		return 0, errors.New("invalid stock increment params")
	}
	result := r.db.Model(&models.Book{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetStock 直接设置库存（管理端补货）
func (r *GormBookRepository) SetStock(id uint, stock int) (int64, error) {
	if id == 0 || stock < 0 {
		return 0, errors.New("invalid stock value")
	}
	result := r.db.Model(&models.Book{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// InventoryStats 统计图书、作者、出版社数量以及缺货与低库存图书数
// 低库存为 0 < stock < lowStockThreshold。
func (r *GormBookRepository) InventoryStats(lowStockThreshold int) (InventoryStats, error) {
	var stats InventoryStats
	err := r.db.Model(&models.Book{}).
		Select(
			"COUNT(*) AS total_books, "+
				"COUNT(CASE WHEN stock = 0 THEN 1 END) AS out_of_stock, "+
				"COUNT(CASE WHEN stock > 0 AND stock < ? THEN 1 END) AS low_stock",
			lowStockThreshold,
		).
		Scan(&stats).Error
	if err != nil {
		return InventoryStats{}, err
	}
	if err := r.db.Model(&models.Author{}).Count(&stats.TotalAuthors).Error; err != nil {
		return InventoryStats{}, err
	}
	if err := r.db.Model(&models.Publisher{}).Count(&stats.TotalPublishers).Error; err != nil {
		return InventoryStats{}, err
	}
	return stats, nil
}
