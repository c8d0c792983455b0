package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"folioweb/internal/backend"
	"folioweb/internal/web/middleware"
)

// ListResult 区分"确实为空"与"加载失败后降级为空"两种空列表。
type ListResult[T any] struct {
	Items      []T
	LoadFailed bool
}

// ResourceConfig wires one entity type into the generic list-and-form
// workflow shared by experiences, skills, organizations and projects.
type ResourceConfig[T any, F any] struct {
	// Name is the singular display name, e.g. "Experience".
	Name string
	// Slug is the admin route segment, e.g. "experiences".
	Slug string

	Resource *backend.Resource[T]

	ListTemplate string
	FormTemplate string

	FormFromRecord func(T) F
	// BeforeSubmit 在载荷提交前做派生字段处理（如组织 duration）。
	BeforeSubmit func(*F)
}

// ResourceController 驱动 列表 → 表单 → 提交 → 列表 的通用 CRUD 流程。
type ResourceController[T any, F any] struct {
	cfg ResourceConfig[T, F]
}

// NewResourceController 构造通用资源控制器。
func NewResourceController[T any, F any](cfg ResourceConfig[T, F]) *ResourceController[T, F] {
	return &ResourceController[T, F]{cfg: cfg}
}

// Register mounts the CRUD routes on the guarded admin group.
func (rc *ResourceController[T, F]) Register(g *gin.RouterGroup) {
	g.GET("/"+rc.cfg.Slug, rc.List)
	g.GET("/"+rc.cfg.Slug+"/new", rc.New)
	g.POST("/"+rc.cfg.Slug, rc.Create)
	g.GET("/"+rc.cfg.Slug+"/:id/edit", rc.Edit)
	g.POST("/"+rc.cfg.Slug+"/:id", rc.Update)
	g.POST("/"+rc.cfg.Slug+"/:id/delete", rc.Delete)
}

func (rc *ResourceController[T, F]) listPath() string {
	return "/admin/" + rc.cfg.Slug
}

// loadCollection 拉取集合；失败吞掉为带标记的空列表，避免整屏报错。
func (rc *ResourceController[T, F]) loadCollection(c *gin.Context) (ListResult[T], error) {
	items, err := rc.cfg.Resource.List(c.Request.Context())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return ListResult[T]{}, err
		}
		middleware.LoggerFromContext(c).Warn("load collection failed",
			slog.String("resource", rc.cfg.Slug),
			slog.Any("error", err),
		)
		return ListResult[T]{Items: []T{}, LoadFailed: true}, nil
	}
	return ListResult[T]{Items: items}, nil
}

// List 渲染集合列表。
func (rc *ResourceController[T, F]) List(c *gin.Context) {
	result, err := rc.loadCollection(c)
	if redirectIfUnauthorized(c, err) {
		return
	}
	render(c, http.StatusOK, rc.cfg.ListTemplate, gin.H{
		"Title":      rc.cfg.Name + "s",
		"Items":      result.Items,
		"LoadFailed": result.LoadFailed,
	})
}

// New 渲染空白创建表单。
func (rc *ResourceController[T, F]) New(c *gin.Context) {
	var blank F
	render(c, http.StatusOK, rc.cfg.FormTemplate, gin.H{
		"Title":   "New " + rc.cfg.Name,
		"Form":    blank,
		"Editing": false,
	})
}

// Create 校验并提交新记录。校验失败时原样回显表单且不触达后端。
func (rc *ResourceController[T, F]) Create(c *gin.Context) {
	var form F
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, rc.cfg.FormTemplate, gin.H{
			"Title":   "New " + rc.cfg.Name,
			"Form":    form,
			"Editing": false,
			"Errors":  FieldErrors(err),
		})
		return
	}
	if rc.cfg.BeforeSubmit != nil {
		rc.cfg.BeforeSubmit(&form)
	}

	if _, err := rc.cfg.Resource.Create(c.Request.Context(), form); err != nil {
		if redirectIfUnauthorized(c, err) {
			return
		}
		render(c, http.StatusBadGateway, rc.cfg.FormTemplate, gin.H{
			"Title":   "New " + rc.cfg.Name,
			"Form":    form,
			"Editing": false,
			"Error":   backend.UserMessage(err),
		})
		return
	}

	redirectWithNotice(c, rc.listPath(), rc.cfg.Name+" added successfully")
}

// Edit 用记录内容预填表单。
func (rc *ResourceController[T, F]) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectWithError(c, rc.listPath(), "Invalid "+rc.cfg.Name+" id")
		return
	}

	record, err := rc.cfg.Resource.Get(c.Request.Context(), id)
	if err != nil {
		if redirectIfUnauthorized(c, err) {
			return
		}
		redirectWithError(c, rc.listPath(), backend.UserMessage(err))
		return
	}

	render(c, http.StatusOK, rc.cfg.FormTemplate, gin.H{
		"Title":   "Edit " + rc.cfg.Name,
		"Form":    rc.cfg.FormFromRecord(record),
		"Editing": true,
		"ID":      id,
	})
}

// Update 校验并提交既有记录的修改；失败停留在表单并保留已填内容。
func (rc *ResourceController[T, F]) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectWithError(c, rc.listPath(), "Invalid "+rc.cfg.Name+" id")
		return
	}

	var form F
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, rc.cfg.FormTemplate, gin.H{
			"Title":   "Edit " + rc.cfg.Name,
			"Form":    form,
			"Editing": true,
			"ID":      id,
			"Errors":  FieldErrors(err),
		})
		return
	}
	if rc.cfg.BeforeSubmit != nil {
		rc.cfg.BeforeSubmit(&form)
	}

	if _, err := rc.cfg.Resource.Update(c.Request.Context(), id, form); err != nil {
		if redirectIfUnauthorized(c, err) {
			return
		}
		render(c, http.StatusBadGateway, rc.cfg.FormTemplate, gin.H{
			"Title":   "Edit " + rc.cfg.Name,
			"Form":    form,
			"Editing": true,
			"ID":      id,
			"Error":   backend.UserMessage(err),
		})
		return
	}

	redirectWithNotice(c, rc.listPath(), rc.cfg.Name+" updated successfully")
}

// Delete 需要显式确认：未带确认标记时先渲染确认页，确认后才调用后端。
func (rc *ResourceController[T, F]) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectWithError(c, rc.listPath(), "Invalid "+rc.cfg.Name+" id")
		return
	}

	if c.PostForm("confirm") != "yes" {
		render(c, http.StatusOK, "confirm_delete", gin.H{
			"Title":      "Delete " + rc.cfg.Name,
			"Name":       rc.cfg.Name,
			"ActionPath": rc.listPath() + "/" + strconv.Itoa(id) + "/delete",
			"BackPath":   rc.listPath(),
		})
		return
	}

	if err := rc.cfg.Resource.Delete(c.Request.Context(), id); err != nil {
		if redirectIfUnauthorized(c, err) {
			return
		}
		redirectWithError(c, rc.listPath(), backend.UserMessage(err))
		return
	}

	redirectWithNotice(c, rc.listPath(), rc.cfg.Name+" deleted successfully")
}

// redirectIfUnauthorized 把 401 统一转成回登录页。会话销毁由全局钩子完成。
func redirectIfUnauthorized(c *gin.Context, err error) bool {
	if err == nil || !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	c.Abort()
	return true
}

func redirectWithNotice(c *gin.Context, path, notice string) {
	c.Redirect(http.StatusSeeOther, path+"?notice="+url.QueryEscape(notice))
}

func redirectWithError(c *gin.Context, path, message string) {
	c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(message))
}
