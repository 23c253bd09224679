package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store 仓储集合
// 所有仓储共享同一个数据库会话；WithTransaction 在事务会话上重新构建集合，
// 回调返回错误或 panic 时整体回滚。
type Store struct {
	db *gorm.DB

	Books         BookRepository
	Carts         CartRepository
	Users         UserRepository
	Orders        OrderRepository
	Vouchers      VoucherRepository
	Notifications NotificationRepository
	Metadata      UserMetadataRepository
	Admins        AdminRepository
}

// NewStore 基于数据库连接创建仓储集合
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Books:         NewBookRepository(db),
		Carts:         NewCartRepository(db),
		Users:         NewUserRepository(db),
		Orders:        NewOrderRepository(db),
		Vouchers:      NewVoucherRepository(db),
		Notifications: NewNotificationRepository(db),
		Metadata:      NewUserMetadataRepository(db),
		Admins:        NewAdminRepository(db),
	}
}

// DB 返回底层会话
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// WithContext 绑定请求上下文
func (s *Store) WithContext(ctx context.Context) *Store {
	if s == nil || s.db == nil || ctx == nil {
		return s
	}
	return NewStore(s.db.WithContext(ctx))
}

// WithTransaction 在单个事务中执行回调
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *Store) error) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if fn == nil {
		return nil
	}
	db := s.db
	if ctx != nil {
		db = db.WithContext(ctx)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
