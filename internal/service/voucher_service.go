package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// VoucherService 优惠券服务
type VoucherService struct {
	store    *repository.Store
	cfg      config.StoreConfig
	cacheTTL time.Duration
	now      func() time.Time
}

// NewVoucherService 创建优惠券服务
func NewVoucherService(store *repository.Store, cfg config.StoreConfig) *VoucherService {
	return &VoucherService{
		store:    store,
		cfg:      cfg,
		cacheTTL: time.Duration(cfg.VoucherCacheSeconds) * time.Second,
		now:      time.Now,
	}
}

// GetByName 按券码查询可用优惠券（大小写不敏感，过期券视为无效）
func (s *VoucherService) GetByName(ctx context.Context, name string) (*models.Voucher, error) {
	normalized := models.NormalizeVoucherName(name)
	if normalized == "" {
		return nil, newVoucherError(ErrVoucherNotFound)
	}

	var voucher *models.Voucher
	snapshot, err := cache.GetVoucher(ctx, normalized)
	if err != nil {
		logger.Warnw("voucher_cache_get_failed", "name", normalized, "error", err)
	}
	if snapshot != nil {
		voucher = snapshot.ToModel()
	} else {
		voucher, err = s.store.WithContext(ctx).Vouchers.GetByName(normalized)
		if err != nil {
			return nil, err
		}
		if voucher == nil {
			return nil, newVoucherError(ErrVoucherNotFound)
		}
		if err := cache.SetVoucher(ctx, cache.BuildVoucherSnapshot(voucher), s.cacheTTL); err != nil {
			logger.Warnw("voucher_cache_set_failed", "name", normalized, "error", err)
		}
	}

	if voucher.Expired(s.now()) {
		return nil, newVoucherError(ErrVoucherExpired)
	}
	return voucher, nil
}

// Apply 计算优惠金额（百分比折扣，受最大优惠封顶与使用门槛约束）
func (s *VoucherService) Apply(voucher *models.Voucher, subtotal models.Money) (models.Money, error) {
	return computeVoucherDiscount(voucher, subtotal, s.now())
}

func computeVoucherDiscount(voucher *models.Voucher, subtotal models.Money, now time.Time) (models.Money, error) {
	if voucher == nil {
		return models.ZeroMoney(), newVoucherError(ErrVoucherNotFound)
	}
	if voucher.Expired(now) {
		return models.ZeroMoney(), newVoucherError(ErrVoucherExpired)
	}
	if subtotal.LessThan(voucher.MinOrderAmount.Decimal) {
		return models.ZeroMoney(), newVoucherError(ErrVoucherMinAmount)
	}
	discount := subtotal.Percent(voucher.DiscountPercent)
	if voucher.MaxDiscount.GreaterThan(decimal.Zero) && discount.GreaterThan(voucher.MaxDiscount.Decimal) {
		discount = voucher.MaxDiscount
	}
	if discount.GreaterThan(subtotal.Decimal) {
		discount = subtotal
	}
	return discount, nil
}

// applyForOrder 在下单事务内校验用户持有的优惠券并计算优惠
func (s *VoucherService) applyForOrder(tx *repository.Store, userID, voucherID uint, subtotal models.Money) (*models.Voucher, models.Money, error) {
	voucher, err := tx.Vouchers.GetByID(voucherID)
	if err != nil {
		return nil, models.ZeroMoney(), err
	}
	if voucher == nil {
		return nil, models.ZeroMoney(), newVoucherError(ErrVoucherNotFound)
	}
	held, err := tx.Vouchers.GetUserVoucher(userID, voucherID)
	if err != nil {
		return nil, models.ZeroMoney(), err
	}
	if held == nil {
		return nil, models.ZeroMoney(), newVoucherError(ErrVoucherNotAssigned)
	}
	if held.IsUsed {
		return nil, models.ZeroMoney(), newVoucherError(ErrVoucherUsed)
	}
	discount, err := s.Apply(voucher, subtotal)
	if err != nil {
		return nil, models.ZeroMoney(), err
	}
	return voucher, discount, nil
}

// ListUserVouchers 列出用户未使用且未过期的优惠券
func (s *VoucherService) ListUserVouchers(ctx context.Context, userID uint) ([]models.UserVoucher, error) {
	return s.store.WithContext(ctx).Vouchers.ListUserAvailable(userID, s.now())
}

// GrantWelcomeVoucher 发放欢迎券，每个用户最多一次
func (s *VoucherService) GrantWelcomeVoucher(ctx context.Context, userID uint) error {
	if !s.cfg.WelcomeVoucher.Enabled || userID == 0 {
		return nil
	}
	var granted *models.Voucher
	err := s.store.WithTransaction(ctx, func(tx *repository.Store) error {
		affected, err := tx.Metadata.MarkWelcomeVoucherSent(userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		voucher, err := s.ensureWelcomeVoucher(tx)
		if err != nil {
			return err
		}
		if _, err := tx.Vouchers.AssignToUser(userID, voucher.ID, s.now()); err != nil {
			return err
		}
		voucherID := voucher.ID
		notification := &models.Notification{
			UserID:    userID,
			Title:     "Welcome voucher",
			Message:   fmt.Sprintf("You received voucher %s: %d%% off your next order.", voucher.Name, voucher.DiscountPercent),
			Type:      constants.NotificationTypeVoucherGrant,
			VoucherID: &voucherID,
		}
		if err := tx.Notifications.Create(notification); err != nil {
			return err
		}
		granted = voucher
		return nil
	})
	if err != nil {
		return err
	}
	if granted != nil {
		logger.Infow("welcome_voucher_granted", "user_id", userID, "voucher_id", granted.ID)
	}
	return nil
}

// ensureWelcomeVoucher 获取欢迎券定义，不存在时按配置创建
func (s *VoucherService) ensureWelcomeVoucher(tx *repository.Store) (*models.Voucher, error) {
	wv := s.cfg.WelcomeVoucher
	voucher, err := tx.Vouchers.GetByName(wv.Code)
	if err != nil {
		return nil, err
	}
	if voucher != nil {
		return voucher, nil
	}
	voucher = &models.Voucher{
		Name:            wv.Code,
		DiscountPercent: wv.DiscountPercent,
		MaxDiscount:     models.NewMoneyFromDecimal(decimal.NewFromInt(int64(wv.MaxDiscount))),
		MinOrderAmount:  models.ZeroMoney(),
		ValidUntil:      s.now().AddDate(0, 0, wv.ValidDays),
	}
	if err := tx.Vouchers.Create(voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}
