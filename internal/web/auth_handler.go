package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"folioweb/internal/session"
	"folioweb/internal/web/middleware"
)

// AuthHandler 处理管理端登录与退出。
type AuthHandler struct {
	store *session.Store
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(store *session.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// ShowLogin 渲染登录页；已登录用户直接回跳仪表盘。
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	cookie, _ := c.Cookie(session.CookieName)
	if cookie != "" {
		if _, state := h.store.Resolve(c.Request.Context(), cookie); state == session.StateAuthenticated {
			c.Redirect(http.StatusSeeOther, "/admin")
			return
		}
	}
	render(c, http.StatusOK, "admin_login", gin.H{
		"Title": "Admin Login",
		"Next":  safeNext(c.Query("next")),
	})
}

// Login 校验凭证并建立会话。认证失败以用户可见消息回显，从不抛错。
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "admin_login", gin.H{
			"Title":  "Admin Login",
			"Form":   form,
			"Next":   safeNext(c.PostForm("next")),
			"Errors": FieldErrors(err),
		})
		return
	}

	result := h.store.Login(c.Request.Context(), form.Username, form.Password)
	if !result.OK {
		render(c, http.StatusUnauthorized, "admin_login", gin.H{
			"Title": "Admin Login",
			"Form":  form,
			"Next":  safeNext(c.PostForm("next")),
			"Error": result.Message,
		})
		return
	}

	c.SetCookie(session.CookieName, result.Cookie, 0, "/", "", false, true)
	target := safeNext(c.PostForm("next"))
	if target == "" {
		target = "/admin"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// Logout 清除会话与 Cookie，幂等。
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		h.store.Logout(c.Request.Context(), cookie)
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// safeNext 只允许站内管理端路径作为回跳目标，防开放重定向。
func safeNext(next string) string {
	if strings.HasPrefix(next, "/admin") && !strings.Contains(next, "//") {
		return next
	}
	return ""
}
