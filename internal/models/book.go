package models

import "time"

// Author 作者表
type Author struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name      string    `gorm:"type:varchar(200);not null" json:"name"` // 作者姓名
	CreatedAt time.Time `json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (Author) TableName() string {
	return "authors"
}

// Publisher 出版社表
type Publisher struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name      string    `gorm:"type:varchar(200);not null" json:"name"` // 出版社名称
	CreatedAt time.Time `json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (Publisher) TableName() string {
	return "publishers"
}

// Book 图书表
// Stock 只允许通过库存台账（补货 / 下单扣减 / 取消回补）修改，且始终 >= 0。
type Book struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                  // 主键
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`          // 书名
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`    // 单价
	Stock       int       `gorm:"not null;default:0;index" json:"stock"`                 // 可售库存
	AuthorID    *uint     `gorm:"index" json:"author_id,omitempty"`                      // 作者ID
	PublisherID *uint     `gorm:"index" json:"publisher_id,omitempty"`                   // 出版社ID
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                               // 更新时间

	Author    *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`       // 作者
	Publisher *Publisher `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"` // 出版社
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

// Orderable 是否可下单（库存大于 0）
func (b *Book) Orderable() bool {
	return b != nil && b.Stock > 0
}
