package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 异步队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderPlaced       = "order:placed"
	TaskOrderStateChanged = "order:state_changed"
)

// 站内通知类型
const (
	NotificationTypeOrderPlaced  = "order_placed"
	NotificationTypeOrderState   = "order_state"
	NotificationTypeVoucherGrant = "voucher_granted"
	NotificationTypeCartAdjusted = "cart_adjusted"
)

// 欢迎券默认参数
const (
	WelcomeVoucherCode            = "WELCOME10"
	WelcomeVoucherDiscountPercent = 10
	WelcomeVoucherMaxDiscount     = 100
	WelcomeVoucherValidDays       = 365
)

// 库存默认参数
const (
	DefaultLowStockThreshold = 50
	DefaultRestockPageSize   = 50
)

// IdempotencyHeader 下单幂等键请求头
const IdempotencyHeader = "Idempotency-Key"
