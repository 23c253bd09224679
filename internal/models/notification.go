package models

import "time"

// Notification 站内通知
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"`                     // 接收用户
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`           // 标题
	Message   string    `gorm:"type:text;not null" json:"message"`                 // 内容
	Type      string    `gorm:"type:varchar(40);index;not null" json:"type"`       // 类型
	OrderID   *uint     `gorm:"index" json:"order_id,omitempty"`                   // 关联订单
	VoucherID *uint     `gorm:"index" json:"voucher_id,omitempty"`                 // 关联优惠券
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`       // 是否已读
	CreatedAt time.Time `gorm:"index" json:"created_at"`                           // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
