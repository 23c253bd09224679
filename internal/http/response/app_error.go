package response

import "fmt"

// AppError 处理器层错误：业务码、文案 key 与可选的附加数据
type AppError struct {
	Code int
	Key  string
	Data interface{}
	Err  error
}

// NewError 构造处理器错误，err 为底层原因，可为空
func NewError(code int, key string, err error) *AppError {
	return &AppError{Code: code, Key: key, Err: err}
}

// WithData 附带返回给调用方的数据，例如可用库存
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (code=%d)", e.Key, e.Code)
	}
	return fmt.Sprintf("%s (code=%d): %v", e.Key, e.Code, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
