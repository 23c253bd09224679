package models

import "time"

// Cart 购物车表
// 被订单引用后即视为已消费，订单通过 cart_id 读取当时的行项目快照。
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"`   // 所属用户
	CreatedAt time.Time `gorm:"index" json:"created_at"`         // 创建时间

	Lines []CartLine `gorm:"foreignKey:CartID" json:"lines,omitempty"` // 行项目
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartLine 购物车行项目
// 同一购物车同一本书最多保留一行，重复行由合并流程收敛。
type CartLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`                         // 主键
	CartID    uint      `gorm:"index:idx_cart_line_book;not null" json:"cart_id"` // 购物车ID
	BookID    uint      `gorm:"index:idx_cart_line_book;not null" json:"book_id"` // 图书ID
	Amount    int       `gorm:"not null;default:1" json:"amount"`             // 数量
	CreatedAt time.Time `json:"created_at"`                                   // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                   // 更新时间

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"` // 图书
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
