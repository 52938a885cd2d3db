package i2stypes

import "errors"

// 转换流水线的错误类型，调用方使用 errors.Is 区分
var (
	ErrInputNotFound      = errors.New("input not found")
	ErrImageRead          = errors.New("image read error")
	ErrInvalidColorFormat = errors.New("invalid color format")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrWrite              = errors.New("write error")
)

// ErrorKind 返回错误对应的类型名，用于日志的 kind 字段
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputNotFound):
		return "InputNotFound"
	case errors.Is(err, ErrImageRead):
		return "ImageReadError"
	case errors.Is(err, ErrInvalidColorFormat):
		return "InvalidColorFormat"
	case errors.Is(err, ErrInvalidParameter):
		return "InvalidParameter"
	case errors.Is(err, ErrWrite):
		return "WriteError"
	default:
		return "Unknown"
	}
}
