package web

import (
	"github.com/gin-gonic/gin"

	"folioweb/internal/session"
	"folioweb/internal/web/middleware"
)

const sessionCookieName = session.CookieName

// render 渲染 HTML 模板，自动注入布局公共字段：
// 当前管理员（若有）、以及经由重定向传递的 notice/error 提示。
func render(c *gin.Context, status int, template string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if admin, ok := middleware.AdminFromContext(c); ok {
		data["Admin"] = admin
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	if _, ok := data["Notice"]; !ok {
		if notice := c.Query("notice"); notice != "" {
			data["Notice"] = notice
		}
	}
	if _, ok := data["Error"]; !ok {
		if errMsg := c.Query("error"); errMsg != "" {
			data["Error"] = errMsg
		}
	}
	c.HTML(status, template, data)
}
