package models

import "time"

// User 用户表
// CartID 是当前购物车的反向引用，仅用于 O(1) 定位，不表示所有权。
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                  // 主键
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"` // 用户名
	Email     string    `gorm:"type:varchar(255);index" json:"email"`                  // 邮箱
	Status    string    `gorm:"type:varchar(20);not null;default:active" json:"status"` // 状态
	CartID    *uint     `gorm:"index" json:"cart_id,omitempty"`                        // 当前购物车ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// UserMetadata 用户统计信息
type UserMetadata struct {
	UserID             uint       `gorm:"primarykey;autoIncrement:false" json:"user_id"`            // 用户ID
	TotalOrders        int        `gorm:"not null;default:0" json:"total_orders"`                   // 累计订单数
	TotalSpent         Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_spent"` // 累计消费
	WelcomeVoucherSent bool       `gorm:"not null;default:false" json:"welcome_voucher_sent"`       // 是否已发放欢迎券
	LastOrderAt        *time.Time `json:"last_order_at"`                                            // 最近下单时间
	UpdatedAt          time.Time  `json:"updated_at"`                                               // 更新时间
}

// TableName 指定表名
func (UserMetadata) TableName() string {
	return "user_metadata"
}
