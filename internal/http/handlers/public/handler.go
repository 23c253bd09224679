package public

import "github.com/bookstore-next/internal/provider"

// Handler 读者侧接口：浏览书目、购物车、下单与站内通知
type Handler struct {
	*provider.Container
}

// New 创建读者侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
