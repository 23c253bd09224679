package models

import "time"

// Order 订单表
// 创建后除 State 外不可变；行项目通过冻结的 CartID 关联。
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                                          // 主键
	UserID          uint       `gorm:"index;not null;uniqueIndex:idx_user_order_number" json:"user_id"`               // 用户ID
	UserOrderNumber int        `gorm:"not null;uniqueIndex:idx_user_order_number" json:"user_order_number"`           // 用户内顺序编号
	CartID          uint       `gorm:"index;not null" json:"cart_id"`                                                 // 冻结的购物车ID
	State           OrderState `gorm:"type:smallint;index;not null;default:1" json:"state"`                           // 订单状态
	Name            string     `gorm:"type:varchar(120);not null" json:"name"`                                        // 收货人
	Phone1          string     `gorm:"type:varchar(40);not null" json:"phone1"`                                       // 联系电话
	Phone2          *string    `gorm:"type:varchar(40)" json:"phone2,omitempty"`                                      // 备用电话
	Address         string     `gorm:"type:varchar(500);not null" json:"address"`                                     // 地址
	PickupLocation  string     `gorm:"type:varchar(255)" json:"pickup_location"`                                      // 自提点
	SubtotalPrice   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_price"`                   // 优惠前金额
	DiscountAmount  Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`                  // 优惠金额
	TotalPrice      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`                      // 实付金额
	VoucherID       *uint      `gorm:"index" json:"voucher_id,omitempty"`                                             // 使用的优惠券
	CancelledAt     *time.Time `gorm:"index" json:"cancelled_at,omitempty"`                                           // 取消时间
	DeliveredAt     *time.Time `gorm:"index" json:"delivered_at,omitempty"`                                           // 送达时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                                       // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                                                    // 更新时间
}

// TableName 指定表名
func (Order) TableName() string {
	return "book_orders"
}
