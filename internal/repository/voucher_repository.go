package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// VoucherRepository 优惠券数据访问接口
type VoucherRepository interface {
	GetByID(id uint) (*models.Voucher, error)
	GetByName(name string) (*models.Voucher, error)
	Create(voucher *models.Voucher) error
	GetUserVoucher(userID, voucherID uint) (*models.UserVoucher, error)
	AssignToUser(userID, voucherID uint, at time.Time) (*models.UserVoucher, error)
	MarkUsed(userID, voucherID, orderID uint, at time.Time) (int64, error)
	ListUserAvailable(userID uint, now time.Time) ([]models.UserVoucher, error)
	WithTx(tx *gorm.DB) VoucherRepository
}

// GormVoucherRepository GORM 实现
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 创建优惠券仓库
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVoucherRepository) WithTx(tx *gorm.DB) VoucherRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherRepository{db: tx}
}

// GetByID 获取优惠券
func (r *GormVoucherRepository) GetByID(id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByName 按券码获取优惠券（大小写不敏感）
func (r *GormVoucherRepository) GetByName(name string) (*models.Voucher, error) {
	normalized := models.NormalizeVoucherName(name)
	if normalized == "" {
		return nil, nil
	}
	var voucher models.Voucher
	if err := r.db.Where("name = ?", normalized).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// Create 创建优惠券
func (r *GormVoucherRepository) Create(voucher *models.Voucher) error {
	return r.db.Create(voucher).Error
}

// GetUserVoucher 获取用户持有记录
func (r *GormVoucherRepository) GetUserVoucher(userID, voucherID uint) (*models.UserVoucher, error) {
	var uv models.UserVoucher
	err := r.db.Where("user_id = ? AND voucher_id = ?", userID, voucherID).First(&uv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &uv, nil
}

// AssignToUser 发放优惠券，已持有时直接返回原记录
func (r *GormVoucherRepository) AssignToUser(userID, voucherID uint, at time.Time) (*models.UserVoucher, error) {
	existing, err := r.GetUserVoucher(userID, voucherID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	uv := &models.UserVoucher{
		UserID:     userID,
		VoucherID:  voucherID,
		AssignedAt: at,
	}
	if err := r.db.Create(uv).Error; err != nil {
		return nil, err
	}
	return uv, nil
}

// MarkUsed 条件核销（仅未使用时生效），返回受影响行数
func (r *GormVoucherRepository) MarkUsed(userID, voucherID, orderID uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.UserVoucher{}).
		Where("user_id = ? AND voucher_id = ? AND is_used = ?", userID, voucherID, false).
		Updates(map[string]interface{}{
			"is_used":          true,
			"used_at":          at,
			"used_in_order_id": orderID,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListUserAvailable 列出用户未使用且未过期的优惠券
func (r *GormVoucherRepository) ListUserAvailable(userID uint, now time.Time) ([]models.UserVoucher, error) {
	var rows []models.UserVoucher
	err := r.db.
		Joins("JOIN vouchers ON vouchers.id = user_vouchers.voucher_id").
		Where("user_vouchers.user_id = ? AND user_vouchers.is_used = ?", userID, false).
		Where("vouchers.valid_until > ?", now).
		Preload("Voucher").
		Order("user_vouchers.assigned_at DESC, user_vouchers.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
