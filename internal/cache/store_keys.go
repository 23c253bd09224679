package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bookstore-next/internal/models"
)

// DefaultIdempotencyTTL 下单幂等键默认保留时长
const DefaultIdempotencyTTL = 24 * time.Hour

// VoucherSnapshot 优惠券缓存快照
type VoucherSnapshot struct {
	ID              uint         `json:"id"`
	Name            string       `json:"name"`
	DiscountPercent int          `json:"discount_percent"`
	MaxDiscount     models.Money `json:"max_discount"`
	MinOrderAmount  models.Money `json:"min_order_amount"`
	ValidUntil      time.Time    `json:"valid_until"`
}

func voucherKey(name string) string {
	return fmt.Sprintf("voucher:name:%s", models.NormalizeVoucherName(name))
}

func idempotencyKey(userID uint, key string) string {
	return fmt.Sprintf("checkout:idem:%d:%s", userID, strings.TrimSpace(key))
}

// BuildVoucherSnapshot 从模型构建缓存快照
func BuildVoucherSnapshot(voucher *models.Voucher) *VoucherSnapshot {
	if voucher == nil {
		return nil
	}
	return &VoucherSnapshot{
		ID:              voucher.ID,
		Name:            voucher.Name,
		DiscountPercent: voucher.DiscountPercent,
		MaxDiscount:     voucher.MaxDiscount,
		MinOrderAmount:  voucher.MinOrderAmount,
		ValidUntil:      voucher.ValidUntil,
	}
}

// ToModel 还原为模型
func (s *VoucherSnapshot) ToModel() *models.Voucher {
	if s == nil {
		return nil
	}
	return &models.Voucher{
		ID:              s.ID,
		Name:            s.Name,
		DiscountPercent: s.DiscountPercent,
		MaxDiscount:     s.MaxDiscount,
		MinOrderAmount:  s.MinOrderAmount,
		ValidUntil:      s.ValidUntil,
	}
}

// GetVoucher 读取优惠券缓存
func GetVoucher(ctx context.Context, name string) (*VoucherSnapshot, error) {
	var snapshot VoucherSnapshot
	hit, err := GetJSON(ctx, voucherKey(name), &snapshot)
	if err != nil || !hit {
		return nil, err
	}
	return &snapshot, nil
}

// SetVoucher 写入优惠券缓存
func SetVoucher(ctx context.Context, snapshot *VoucherSnapshot, ttl time.Duration) error {
	if snapshot == nil || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, voucherKey(snapshot.Name), snapshot, ttl)
}

// ReserveIdempotencyKey 占用下单幂等键，返回 false 表示重复请求
func ReserveIdempotencyKey(ctx context.Context, userID uint, key string, ttl time.Duration) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return true, nil
	}
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return SetNX(ctx, idempotencyKey(userID, key), time.Now().Unix(), ttl)
}

// ReleaseIdempotencyKey 释放幂等键（下单失败时调用，允许客户端重试）
func ReleaseIdempotencyKey(ctx context.Context, userID uint, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return Del(ctx, idempotencyKey(userID, key))
}
