package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"folioweb/internal/backend"
	"folioweb/internal/web/middleware"
)

// ProfileHandler 是单例资源的控制器变体：加载不到档案时直接进入创建表单，
// 提交按"不存在则创建、存在则更新"处理。
type ProfileHandler struct {
	api *backend.API
}

// NewProfileHandler 构造档案处理器。
func NewProfileHandler(api *backend.API) *ProfileHandler {
	return &ProfileHandler{api: api}
}

// Register mounts the profile routes on the guarded admin group.
func (h *ProfileHandler) Register(g *gin.RouterGroup) {
	g.GET("/profile", h.Edit)
	g.POST("/profile", h.Save)
}

// Edit 渲染档案表单，已有档案则预填。
func (h *ProfileHandler) Edit(c *gin.Context) {
	profile, exists, err := h.api.GetProfile(c.Request.Context())
	if redirectIfUnauthorized(c, err) {
		return
	}
	if err != nil {
		middleware.LoggerFromContext(c).Warn("load profile failed", slog.Any("error", err))
		render(c, http.StatusOK, "admin_profile_form", gin.H{
			"Title":      "Profile",
			"Form":       ProfileForm{},
			"Exists":     false,
			"LoadFailed": true,
		})
		return
	}

	form := ProfileForm{}
	if exists {
		form = profileForm(profile)
	}
	render(c, http.StatusOK, "admin_profile_form", gin.H{
		"Title":  "Profile",
		"Form":   form,
		"Exists": exists,
	})
}

// Save 校验并提交档案。exists 以提交时的后端状态为准，而非表单自述。
func (h *ProfileHandler) Save(c *gin.Context) {
	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "admin_profile_form", gin.H{
			"Title":  "Profile",
			"Form":   form,
			"Exists": c.PostForm("exists") == "yes",
			"Errors": FieldErrors(err),
		})
		return
	}

	ctx := c.Request.Context()
	_, exists, err := h.api.GetProfile(ctx)
	if redirectIfUnauthorized(c, err) {
		return
	}
	if err != nil {
		render(c, http.StatusBadGateway, "admin_profile_form", gin.H{
			"Title":  "Profile",
			"Form":   form,
			"Exists": false,
			"Error":  backend.UserMessage(err),
		})
		return
	}

	if _, err := h.api.SaveProfile(ctx, form, exists); err != nil {
		if redirectIfUnauthorized(c, err) {
			return
		}
		render(c, http.StatusBadGateway, "admin_profile_form", gin.H{
			"Title":  "Profile",
			"Form":   form,
			"Exists": exists,
			"Error":  backend.UserMessage(err),
		})
		return
	}

	redirectWithNotice(c, "/admin/profile", "Profile saved successfully")
}
