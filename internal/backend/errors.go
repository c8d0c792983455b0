package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrUnauthorized 表示后端返回 401，会话已不可用。
var ErrUnauthorized = errors.New("backend: unauthorized")

// ErrNoData 表示响应缺少 data 字段（单例资源视为"尚无数据"）。
var ErrNoData = errors.New("backend: response carried no data")

// APIError carries a non-2xx backend response with the user-facing message
// extracted from its payload, or a generic fallback when absent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// Is 让 401 的 APIError 同时匹配 ErrUnauthorized，错误消息得以保留。
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsTimeout reports whether the error is a request timeout rather than a
// server-returned failure.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// UserMessage extracts the message to surface for a failed call: the backend
// payload message when present, else a generic fallback per failure class.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if IsTimeout(err) {
		return "The request timed out. Please try again."
	}
	return "Something went wrong. Please try again."
}
