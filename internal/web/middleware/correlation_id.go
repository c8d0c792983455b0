package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"folioweb/internal/backend"
)

const correlationIDKey = "correlationID"

// CorrelationIDMiddleware 为每个请求透传或生成 Correlation ID。
// ID 同时写入响应头与请求上下文，本次请求发起的所有后端调用
// 都会转发同一个 ID。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(backend.CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(backend.CorrelationIDHeader, id)
		c.Request = c.Request.WithContext(
			backend.WithCorrelationID(c.Request.Context(), id))

		c.Next()
	}
}

// GetCorrelationID 从上下文中取出 Correlation ID。
func GetCorrelationID(c *gin.Context) string {
	if value, ok := c.Get(correlationIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
