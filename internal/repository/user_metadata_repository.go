package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserMetadataRepository 用户统计数据访问接口
type UserMetadataRepository interface {
	Get(userID uint) (*models.UserMetadata, error)
	RecordOrder(userID uint, total models.Money, at time.Time) error
	MarkWelcomeVoucherSent(userID uint) (int64, error)
	WithTx(tx *gorm.DB) UserMetadataRepository
}

// GormUserMetadataRepository GORM 实现
type GormUserMetadataRepository struct {
	db *gorm.DB
}

// NewUserMetadataRepository 创建用户统计仓库
func NewUserMetadataRepository(db *gorm.DB) *GormUserMetadataRepository {
	return &GormUserMetadataRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserMetadataRepository) WithTx(tx *gorm.DB) UserMetadataRepository {
	if tx == nil {
		return r
	}
	return &GormUserMetadataRepository{db: tx}
}

// Get 获取用户统计，不存在时返回 nil
func (r *GormUserMetadataRepository) Get(userID uint) (*models.UserMetadata, error) {
	var meta models.UserMetadata
	if err := r.db.Where("user_id = ?", userID).First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// ensure 确保统计行存在
func (r *GormUserMetadataRepository) ensure(userID uint) error {
	meta := models.UserMetadata{UserID: userID, TotalSpent: models.ZeroMoney()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&meta).Error
}

// RecordOrder 累加订单数与消费金额
func (r *GormUserMetadataRepository) RecordOrder(userID uint, total models.Money, at time.Time) error {
	if err := r.ensure(userID); err != nil {
		return err
	}
	return r.db.Model(&models.UserMetadata{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_orders":  gorm.Expr("total_orders + ?", 1),
			"total_spent":   gorm.Expr("total_spent + ?", total.String()),
			"last_order_at": at,
			"updated_at":    at,
		}).Error
}

// MarkWelcomeVoucherSent 条件标记欢迎券已发放，返回受影响行数（0 表示已发放过）
func (r *GormUserMetadataRepository) MarkWelcomeVoucherSent(userID uint) (int64, error) {
	if err := r.ensure(userID); err != nil {
		return 0, err
	}
	result := r.db.Model(&models.UserMetadata{}).
		Where("user_id = ? AND welcome_voucher_sent = ?", userID, false).
		Update("welcome_voucher_sent", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
