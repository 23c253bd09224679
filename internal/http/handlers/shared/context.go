package shared

import (
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入上下文的主体键
const (
	ContextKeyUserID  = "user_id"
	ContextKeyAdminID = "admin_id"
)

// PrincipalID 读取鉴权中间件写入的主体 ID
// 缺失视为未登录；类型不符或为 0 属于中间件缺陷，按内部错误处理。
func PrincipalID(c *gin.Context, key, invalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	var id uint
	switch v := value.(type) {
	case uint:
		id = v
	case uint64:
		id = uint(v)
	case int:
		if v > 0 {
			id = uint(v)
		}
	}
	if id == 0 {
		RespondError(c, response.CodeInternal, invalidKey, nil)
		return 0, false
	}
	return id, true
}
