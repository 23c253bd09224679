package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Voucher 优惠券表
// 折扣按百分比计算，并受 MaxDiscount 封顶。
type Voucher struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                         // 主键
	Name            string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`            // 券码（统一大写）
	DiscountPercent int       `gorm:"not null" json:"discount_percent"`                             // 折扣百分比
	MaxDiscount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`    // 最大优惠金额（0 表示不封顶）
	MinOrderAmount  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 使用门槛
	ValidUntil      time.Time `gorm:"index;not null" json:"valid_until"`                            // 有效期截止
	CreatedAt       time.Time `json:"created_at"`                                                   // 创建时间
}

// TableName 指定表名
func (Voucher) TableName() string {
	return "vouchers"
}

// BeforeSave 统一券码大小写
func (v *Voucher) BeforeSave(_ *gorm.DB) error {
	v.Name = NormalizeVoucherName(v.Name)
	return nil
}

// Expired 判断是否过期
func (v *Voucher) Expired(now time.Time) bool {
	return v == nil || !now.Before(v.ValidUntil)
}

// NormalizeVoucherName 归一化券码
func NormalizeVoucherName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// UserVoucher 用户持有的优惠券
type UserVoucher struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                         // 主键
	UserID        uint       `gorm:"uniqueIndex:idx_user_voucher;not null" json:"user_id"`         // 用户ID
	VoucherID     uint       `gorm:"uniqueIndex:idx_user_voucher;not null" json:"voucher_id"`      // 优惠券ID
	IsUsed        bool       `gorm:"not null;default:false;index" json:"is_used"`                  // 是否已使用
	UsedAt        *time.Time `json:"used_at,omitempty"`                                            // 使用时间
	UsedInOrderID *uint      `gorm:"index" json:"used_in_order_id,omitempty"`                      // 使用的订单
	AssignedAt    time.Time  `gorm:"not null" json:"assigned_at"`                                  // 发放时间

	Voucher *Voucher `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"` // 优惠券
}

// TableName 指定表名
func (UserVoucher) TableName() string {
	return "user_vouchers"
}
