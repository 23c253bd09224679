package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	LockByID(id uint) (*models.Order, error)
	GetByUserOrderNumber(userID uint, number int) (*models.Order, error)
	NextUserOrderNumber(userID uint) (int, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateState(id uint, from, to models.OrderState, at time.Time) (int64, error)
	SumDelivered() (RevenueSummary, error)
	HasDeliveredBook(userID, bookID uint) (bool, error)
	CountByState() (OrderStateCounts, error)
	TopSellingBooks(limit int) ([]BookSales, error)
	SalesBetween(from, to time.Time) (SalesSummary, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// LockByID 在事务内锁定订单行
func (r *GormOrderRepository) LockByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByUserOrderNumber 按用户内编号获取订单
func (r *GormOrderRepository) GetByUserOrderNumber(userID uint, number int) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("user_id = ? AND user_order_number = ?", userID, number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// NextUserOrderNumber 计算用户下一个订单编号
// 调用方需先锁定用户行，(user_id, user_order_number) 唯一索引兜底。
func (r *GormOrderRepository) NextUserOrderNumber(userID uint) (int, error) {
	var maxNumber int
	row := r.db.Model(&models.Order{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(user_order_number), 0)").
		Row()
	if err := row.Scan(&maxNumber); err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateState 条件更新订单状态（仅当当前状态为 from 时生效）
func (r *GormOrderRepository) UpdateState(id uint, from, to models.OrderState, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"state":      to,
		"updated_at": at,
	}
	switch to {
	case models.OrderStateCancelled:
		updates["cancelled_at"] = at
	case models.OrderStateDelivered:
		updates["delivered_at"] = at
	}
	result := r.db.Model(&models.Order{}).Where("id = ? AND state = ?", id, from).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SumDelivered 统计已送达订单数量与营收
func (r *GormOrderRepository) SumDelivered() (RevenueSummary, error) {
	var row struct {
		Orders  int64
		Revenue models.Money
	}
	err := r.db.Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue").
		Where("state = ?", models.OrderStateDelivered).
		Scan(&row).Error
	if err != nil {
		return RevenueSummary{}, err
	}
	return RevenueSummary{DeliveredOrders: row.Orders, Revenue: row.Revenue}, nil
}

// HasDeliveredBook 用户是否有包含该书且已送达的订单（评价资格）
func (r *GormOrderRepository) HasDeliveredBook(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Table("book_orders AS o").
		Joins("JOIN cart_lines AS cl ON cl.cart_id = o.cart_id").
		Where("o.user_id = ? AND cl.book_id = ? AND o.state = ?", userID, bookID, models.OrderStateDelivered).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByState 统计订单总数、已完成、处理中与待送达数量
func (r *GormOrderRepository) CountByState() (OrderStateCounts, error) {
	var counts OrderStateCounts
	err := r.db.Model(&models.Order{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(CASE WHEN state = ? THEN 1 END) AS completed, "+
				"COUNT(CASE WHEN state BETWEEN ? AND ? THEN 1 END) AS pending, "+
				"COUNT(CASE WHEN state = ? THEN 1 END) AS pending_deliveries",
			models.OrderStateDelivered,
			models.OrderStatePlaced, models.OrderStateShipped,
			models.OrderStateShipped,
		).
		Scan(&counts).Error
	if err != nil {
		return OrderStateCounts{}, err
	}
	return counts, nil
}

// TopSellingBooks 按已送达订单中的销量降序返回图书
func (r *GormOrderRepository) TopSellingBooks(limit int) ([]BookSales, error) {
	var rows []BookSales
	err := r.db.Table("book_orders AS o").
		Select("b.id AS book_id, b.name AS name, b.price AS price, SUM(cl.amount) AS sold").
		Joins("JOIN cart_lines AS cl ON cl.cart_id = o.cart_id").
		Joins("JOIN books AS b ON b.id = cl.book_id").
		Where("o.state = ?", models.OrderStateDelivered).
		Group("b.id, b.name, b.price").
		Order("sold DESC, b.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesBetween 统计 [from, to) 内下单且已送达的销量与销售额
func (r *GormOrderRepository) SalesBetween(from, to time.Time) (SalesSummary, error) {
	var summary SalesSummary
	err := r.db.Table("book_orders AS o").
		Select("COALESCE(SUM(cl.amount), 0) AS books_sold, COALESCE(SUM(b.price * cl.amount), 0) AS earned").
		Joins("JOIN cart_lines AS cl ON cl.cart_id = o.cart_id").
		Joins("JOIN books AS b ON b.id = cl.book_id").
		Where("o.state = ? AND o.created_at >= ? AND o.created_at < ?", models.OrderStateDelivered, from, to).
		Scan(&summary).Error
	if err != nil {
		return SalesSummary{}, err
	}
	return summary, nil
}
