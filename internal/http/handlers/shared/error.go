package shared

import (
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/i18n"
	"github.com/bookstore-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 带 request_id 的日志
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按文案 key 返回本地化错误
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAppError(c, response.NewError(code, key, err))
}

// RespondErrorWithData 返回本地化错误并附带业务数据
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}) {
	RespondAppError(c, response.NewError(code, key, nil).WithData(data))
}

// RespondAppError 写出 AppError，4xx 记 warn，其余记 error
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr == nil {
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), appErr.Key)
	if appErr.Err != nil {
		log := RequestLog(c)
		fields := []interface{}{"code", appErr.Code, "key", appErr.Key, "error", appErr.Err}
		if response.IsClientError(appErr.Code) {
			log.Warnw("handler_rejected", fields...)
		} else {
			log.Errorw("handler_error", fields...)
		}
	}
	response.ErrorWithData(c, appErr.Code, msg, appErr.Data)
}
