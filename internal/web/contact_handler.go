package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"folioweb/internal/backend"
	"folioweb/internal/portfolio"
	"folioweb/internal/web/middleware"
)

// ContactInboxHandler 管理访客留言：只读列表、详情（附带已读标记）与删除。
// 留言没有创建/编辑表单 —— 内容来自公开联系表单，提交后不可修改。
type ContactInboxHandler struct {
	api *backend.API
}

// NewContactInboxHandler 构造留言箱处理器。
func NewContactInboxHandler(api *backend.API) *ContactInboxHandler {
	return &ContactInboxHandler{api: api}
}

// Register mounts the inbox routes on the guarded admin group.
func (h *ContactInboxHandler) Register(g *gin.RouterGroup) {
	g.GET("/messages", h.List)
	g.GET("/messages/:id", h.Show)
	g.POST("/messages/:id/delete", h.Delete)
}

// List 渲染留言列表。搜索与已读过滤是对已拉取集合的纯内存谓词，
// 不会重新请求后端。
func (h *ContactInboxHandler) List(c *gin.Context) {
	messages, err := h.api.Messages.List(c.Request.Context())
	if redirectIfUnauthorized(c, err) {
		return
	}
	loadFailed := false
	if err != nil {
		middleware.LoggerFromContext(c).Warn("load messages failed", slog.Any("error", err))
		messages = []portfolio.ContactMessage{}
		loadFailed = true
	}

	search := c.Query("q")
	status := portfolio.MessageStatusFilter(c.DefaultQuery("status", string(portfolio.MessageFilterAll)))
	filtered := portfolio.FilterMessages(messages, search, status)

	render(c, http.StatusOK, "admin_messages_list", gin.H{
		"Title":      "Messages",
		"Items":      filtered,
		"LoadFailed": loadFailed,
		"Search":     search,
		"Status":     string(status),
		"Unread":     portfolio.UnreadCount(messages),
		"Total":      len(messages),
	})
}

// Show 渲染留言详情；未读留言在打开时标记为已读。
func (h *ContactInboxHandler) Show(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectWithError(c, "/admin/messages", "Invalid message id")
		return
	}

	ctx := c.Request.Context()
	messages, err := h.api.Messages.List(ctx)
	if redirectIfUnauthorized(c, err) {
		return
	}
	if err != nil {
		redirectWithError(c, "/admin/messages", backend.UserMessage(err))
		return
	}

	var message *portfolio.ContactMessage
	for i := range messages {
		if messages[i].ID == id {
			message = &messages[i]
			break
		}
	}
	if message == nil {
		redirectWithError(c, "/admin/messages", "Message not found")
		return
	}

	if !message.IsRead {
		if err := h.api.MarkMessageRead(ctx, id); err != nil {
			if redirectIfUnauthorized(c, err) {
				return
			}
			middleware.LoggerFromContext(c).Warn("mark message read failed",
				slog.Int("message_id", id), slog.Any("error", err))
		} else {
			message.IsRead = true
		}
	}

	render(c, http.StatusOK, "admin_message_detail", gin.H{
		"Title":   "Message from " + message.Name,
		"Message": message,
	})
}

// Delete 删除留言，沿用通用的确认流程。
func (h *ContactInboxHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectWithError(c, "/admin/messages", "Invalid message id")
		return
	}

	if c.PostForm("confirm") != "yes" {
		render(c, http.StatusOK, "confirm_delete", gin.H{
			"Title":      "Delete Message",
			"Name":       "Message",
			"ActionPath": "/admin/messages/" + strconv.Itoa(id) + "/delete",
			"BackPath":   "/admin/messages",
		})
		return
	}

	if err := h.api.Messages.Delete(c.Request.Context(), id); err != nil {
		if redirectIfUnauthorized(c, err) {
			return
		}
		redirectWithError(c, "/admin/messages", backend.UserMessage(err))
		return
	}

	redirectWithNotice(c, "/admin/messages", "Message deleted successfully")
}
