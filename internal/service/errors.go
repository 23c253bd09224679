package service

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrOutOfStock         = errors.New("book out of stock")
	ErrStockExceeded      = errors.New("requested amount exceeds stock")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStockInvalid       = errors.New("invalid stock value")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrVoucherInvalid     = errors.New("voucher invalid")
	ErrVoucherNotFound    = errors.New("voucher not found")
	ErrVoucherExpired     = errors.New("voucher expired")
	ErrVoucherUsed        = errors.New("voucher already used")
	ErrVoucherMinAmount   = errors.New("order amount below voucher threshold")
	ErrVoucherNotAssigned = errors.New("voucher not assigned to user")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStateInvalid  = errors.New("order state transition not allowed")
	ErrOrderCreateFailed  = errors.New("order create failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
	ErrOrderInfoInvalid   = errors.New("order contact info invalid")
	ErrDuplicateRequest   = errors.New("duplicate request")
	ErrNotificationAbsent = errors.New("notification not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// StockExceededError 请求数量超过当前库存
type StockExceededError struct {
	BookID    uint
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("requested amount exceeds stock: book %d has %d available", e.BookID, e.Available)
}

// Is 匹配 ErrStockExceeded
func (e *StockExceededError) Is(target error) bool {
	return target == ErrStockExceeded
}

// InsufficientStockError 下单扣减时库存不足
type InsufficientStockError struct {
	BookID    uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: book %d requested %d available %d", e.BookID, e.Requested, e.Available)
}

// Is 匹配 ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// voucherError 包装具体的优惠券失败原因，同时匹配 ErrVoucherInvalid
type voucherError struct {
	reason error
}

func newVoucherError(reason error) error {
	return &voucherError{reason: reason}
}

func (e *voucherError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVoucherInvalid.Error(), e.reason.Error())
}

func (e *voucherError) Unwrap() error {
	return e.reason
}

// Is 匹配 ErrVoucherInvalid
func (e *voucherError) Is(target error) bool {
	return target == ErrVoucherInvalid
}
