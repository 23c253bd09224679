package admin

import "github.com/bookstore-next/internal/provider"

// Handler 后台接口：书目与库存维护、订单状态流转、统计与管理员角色
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
