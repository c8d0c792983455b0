package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"folioweb/internal/backend"
	"folioweb/internal/portfolio"
	"folioweb/internal/session"
)

const adminKey = "sessionAdmin"

// LoginPath 是未认证访问被重定向到的登录页地址。
const LoginPath = "/admin/login"

// SessionGuard 拦截管理端路由：
//   - 已认证：把管理员身份与令牌注入请求上下文后放行；
//   - 未认证：重定向到登录页并带上回跳地址；
//   - 无法判定（验证请求失败）：返回 503 重试页，绝不重定向，
//     避免验证未完成时先闪出"未登录"。
func SessionGuard(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(session.CookieName)
		sess, state := store.Resolve(c.Request.Context(), cookie)

		switch state {
		case session.StateAuthenticated:
			c.Set(adminKey, sess.Admin)
			ctx := backend.WithToken(c.Request.Context(), sess.Token)
			ctx = session.WithSID(ctx, sess.ID)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		case session.StateAnonymous:
			target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
		default:
			c.HTML(http.StatusServiceUnavailable, "session_pending", gin.H{
				"Title": "One moment",
			})
			c.Abort()
		}
	}
}

// AdminFromContext 返回守卫注入的管理员身份。
func AdminFromContext(c *gin.Context) (portfolio.Admin, bool) {
	value, exists := c.Get(adminKey)
	if !exists {
		return portfolio.Admin{}, false
	}
	admin, ok := value.(portfolio.Admin)
	return admin, ok
}
