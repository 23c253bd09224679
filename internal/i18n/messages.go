package i18n

var catalog = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":               "请求参数错误",
		"error.unauthorized":              "未登录或登录已过期",
		"error.forbidden":                 "无权限访问",
		"error.internal":                  "服务器内部错误",
		"error.rate_limited":              "请求过于频繁，请 %d 秒后再试",
		"error.jwt_secret_missing":        "鉴权配置缺失",
		"error.auth_header_missing":       "缺少 Authorization 请求头",
		"error.auth_header_invalid":       "Authorization 格式错误",
		"error.token_invalid":             "令牌无效或已过期",
		"error.user_disabled":             "账号已被禁用",
		"error.rate_limit_unavailable":    "限流服务不可用",
		"error.checkout_too_many":         "下单过于频繁，请 %d 秒后再试",
		"error.login_too_many":            "登录尝试过多，请 %d 秒后再试",
		"error.duplicate_request":         "请勿重复提交",
		"error.user_id_invalid":           "用户标识无效",
		"error.admin_id_invalid":          "管理员标识无效",
		"error.user_not_found":            "用户不存在",
		"error.login_invalid":             "用户名或密码错误",
		"error.book_not_found":            "图书不存在",
		"error.book_out_of_stock":         "图书已售罄",
		"error.stock_exceeded":            "购买数量超过库存",
		"error.stock_insufficient":        "库存不足",
		"error.stock_invalid":             "库存数量无效",
		"error.amount_invalid":            "数量无效",
		"error.stock_fetch_failed":        "获取库存失败",
		"error.stock_update_failed":       "更新库存失败",
		"error.book_fetch_failed":         "获取图书失败",
		"error.cart_empty":                "购物车为空",
		"error.cart_not_found":            "购物车不存在",
		"error.cart_line_not_found":       "购物车中没有该商品",
		"error.cart_fetch_failed":         "获取购物车失败",
		"error.cart_update_failed":        "更新购物车失败",
		"error.voucher_invalid":           "优惠券不可用",
		"error.voucher_not_found":         "优惠券不存在",
		"error.voucher_expired":           "优惠券已过期",
		"error.voucher_used":              "优惠券已使用",
		"error.voucher_min_amount":        "未达到优惠券使用门槛",
		"error.voucher_not_assigned":      "未持有该优惠券",
		"error.voucher_fetch_failed":      "获取优惠券失败",
		"error.order_not_found":           "订单不存在",
		"error.order_state_invalid":       "订单状态流转不合法",
		"error.order_info_invalid":        "收货信息不完整",
		"error.order_create_failed":       "创建订单失败",
		"error.order_update_failed":       "更新订单失败",
		"error.order_fetch_failed":        "获取订单失败",
		"error.notification_not_found":    "通知不存在",
		"error.notification_fetch_failed": "获取通知失败",
		"error.stats_fetch_failed":        "获取统计失败",
	},
	LocaleEnUS: {
		"error.bad_request":               "Invalid request parameters",
		"error.unauthorized":              "Not logged in or session expired",
		"error.forbidden":                 "Access denied",
		"error.internal":                  "Internal server error",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.jwt_secret_missing":        "Authentication is not configured",
		"error.auth_header_missing":       "Missing Authorization header",
		"error.auth_header_invalid":       "Malformed Authorization header",
		"error.token_invalid":             "Token is invalid or expired",
		"error.user_disabled":             "Account is disabled",
		"error.rate_limit_unavailable":    "Rate limiter unavailable",
		"error.checkout_too_many":         "Too many checkouts, retry in %d seconds",
		"error.login_too_many":            "Too many login attempts, retry in %d seconds",
		"error.duplicate_request":         "Duplicate request",
		"error.user_id_invalid":           "Invalid user id",
		"error.admin_id_invalid":          "Invalid admin id",
		"error.user_not_found":            "User not found",
		"error.login_invalid":             "Invalid username or password",
		"error.book_not_found":            "Book not found",
		"error.book_out_of_stock":         "Book is out of stock",
		"error.stock_exceeded":            "Requested amount exceeds stock",
		"error.stock_insufficient":        "Insufficient stock",
		"error.stock_invalid":             "Invalid stock value",
		"error.amount_invalid":            "Invalid amount",
		"error.stock_fetch_failed":        "Failed to fetch stock",
		"error.stock_update_failed":       "Failed to update stock",
		"error.book_fetch_failed":         "Failed to fetch books",
		"error.cart_empty":                "Cart is empty",
		"error.cart_not_found":            "Cart not found",
		"error.cart_line_not_found":       "Book is not in the cart",
		"error.cart_fetch_failed":         "Failed to fetch cart",
		"error.cart_update_failed":        "Failed to update cart",
		"error.voucher_invalid":           "Voucher cannot be applied",
		"error.voucher_not_found":         "Voucher not found",
		"error.voucher_expired":           "Voucher has expired",
		"error.voucher_used":              "Voucher already used",
		"error.voucher_min_amount":        "Order does not reach the voucher minimum",
		"error.voucher_not_assigned":      "Voucher is not assigned to you",
		"error.voucher_fetch_failed":      "Failed to fetch vouchers",
		"error.order_not_found":           "Order not found",
		"error.order_state_invalid":       "Invalid order state transition",
		"error.order_info_invalid":        "Incomplete delivery information",
		"error.order_create_failed":       "Failed to create order",
		"error.order_update_failed":       "Failed to update order",
		"error.order_fetch_failed":        "Failed to fetch orders",
		"error.notification_not_found":    "Notification not found",
		"error.notification_fetch_failed": "Failed to fetch notifications",
		"error.stats_fetch_failed":        "Failed to fetch statistics",
	},
}
