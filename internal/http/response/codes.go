package response

// 业务状态码，写入响应体 status_code，HTTP 状态恒为 200
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// IsClientError 是否为调用方可修正的错误
func IsClientError(code int) bool {
	return code >= 400 && code < 500
}
