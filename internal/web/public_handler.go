package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"folioweb/internal/backend"
	"folioweb/internal/cache"
	"folioweb/internal/portfolio"
	"folioweb/internal/web/middleware"
)

// PublicHandler 渲染访客侧只读页面与公开联系表单。
// 数据经由 Redis 快照缓存读取：TTL 内直接命中；后端故障时回退旧快照。
type PublicHandler struct {
	api       *backend.API
	snapshots *cache.SnapshotStore
}

// NewPublicHandler 构造公共页面处理器。
func NewPublicHandler(api *backend.API, snapshots *cache.SnapshotStore) *PublicHandler {
	return &PublicHandler{api: api, snapshots: snapshots}
}

// Register mounts the public routes.
func (h *PublicHandler) Register(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/profile", h.Profile)
	r.GET("/experience", h.Experience)
	r.GET("/skills", h.Skills)
	r.GET("/organizations", h.Organizations)
	r.GET("/projects", h.Projects)
	r.GET("/contact", h.ContactForm)
	r.POST("/contact", h.SubmitContact)
}

// loadSnapshot 读取公共数据：新鲜缓存直接用；否则拉取后端并刷新缓存；
// 拉取整体失败时回退到旧快照，连旧快照都没有才给空数据。
func (h *PublicHandler) loadSnapshot(ctx context.Context, logger *slog.Logger) *cache.PublicSnapshot {
	stored, fresh := h.snapshots.Load(ctx)
	if fresh {
		return stored
	}

	snapshot, failures := h.fetchSnapshot(ctx, logger)
	if failures == 0 {
		h.snapshots.Save(ctx, snapshot)
		return snapshot
	}
	if stored != nil {
		logger.Warn("serving stale public snapshot", slog.Int("fetch_failures", failures))
		return stored
	}
	return snapshot
}

func (h *PublicHandler) fetchSnapshot(ctx context.Context, logger *slog.Logger) (*cache.PublicSnapshot, int) {
	snapshot := &cache.PublicSnapshot{
		Experiences:   []portfolio.Experience{},
		Skills:        map[string][]portfolio.Skill{},
		Organizations: []portfolio.Organization{},
		Projects:      []portfolio.Project{},
		Featured:      []portfolio.Project{},
	}
	// fail 被六个并发拉取共享，计数必须原子
	var failures atomic.Int32
	fail := func(section string, err error) {
		failures.Add(1)
		logger.Warn("public fetch failed", slog.String("section", section), slog.Any("error", err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, exists, err := h.api.GetProfile(gctx)
		if err != nil {
			fail("profile", err)
		} else if exists {
			snapshot.Profile = &profile
		}
		return nil
	})
	g.Go(func() error {
		items, err := h.api.Experiences.List(gctx)
		if err != nil {
			fail("experiences", err)
			return nil
		}
		snapshot.Experiences = portfolio.SortByStartDateDesc(items, func(e portfolio.Experience) string { return e.StartDate })
		return nil
	})
	g.Go(func() error {
		grouped, err := h.api.GroupedSkills(gctx)
		if err != nil {
			fail("skills", err)
			return nil
		}
		snapshot.Skills = grouped
		return nil
	})
	g.Go(func() error {
		items, err := h.api.Organizations.List(gctx)
		if err != nil {
			fail("organizations", err)
			return nil
		}
		snapshot.Organizations = portfolio.SortByStartDateDesc(items, func(o portfolio.Organization) string { return o.StartDate })
		return nil
	})
	g.Go(func() error {
		items, err := h.api.Projects.List(gctx)
		if err != nil {
			fail("projects", err)
			return nil
		}
		snapshot.Projects = items
		return nil
	})
	g.Go(func() error {
		items, err := h.api.FeaturedProjects(gctx)
		if err != nil {
			fail("featured", err)
			return nil
		}
		snapshot.Featured = items
		return nil
	})
	_ = g.Wait()

	return snapshot, int(failures.Load())
}

// Home 渲染首页：档案、精选项目与按类别分组的技能。
func (h *PublicHandler) Home(c *gin.Context) {
	snapshot := h.loadSnapshot(c.Request.Context(), middleware.LoggerFromContext(c))
	render(c, http.StatusOK, "home", gin.H{
		"Title":    "Home",
		"Profile":  snapshot.Profile,
		"Featured": snapshot.Featured,
		"Skills":   snapshot.Skills,
	})
}

// Profile 渲染完整档案页：简介、联系方式与社交链接。
func (h *PublicHandler) Profile(c *gin.Context) {
	snapshot := h.loadSnapshot(c.Request.Context(), middleware.LoggerFromContext(c))
	render(c, http.StatusOK, "profile", gin.H{
		"Title":   "Profile",
		"Profile": snapshot.Profile,
	})
}

// Experience 渲染工作经历页。
func (h *PublicHandler) Experience(c *gin.Context) {
	snapshot := h.loadSnapshot(c.Request.Context(), middleware.LoggerFromContext(c))
	render(c, http.StatusOK, "experience", gin.H{
		"Title": "Experience",
		"Items": snapshot.Experiences,
	})
}

// Skills 渲染技能页，按类别分组展示。
func (h *PublicHandler) Skills(c *gin.Context) {
	snapshot := h.loadSnapshot(c.Request.Context(), middleware.LoggerFromContext(c))
	render(c, http.StatusOK, "skills", gin.H{
		"Title":      "Skills",
		"Grouped":    snapshot.Skills,
		"Categories": portfolio.SkillCategories,
	})
}

// Organizations 渲染组织经历页。
func (h *PublicHandler) Organizations(c *gin.Context) {
	snapshot := h.loadSnapshot(c.Request.Context(), middleware.LoggerFromContext(c))
	render(c, http.StatusOK, "organizations", gin.H{
		"Title": "Organizations",
		"Items": snapshot.Organizations,
	})
}

// Projects 渲染项目页。
func (h *PublicHandler) Projects(c *gin.Context) {
	snapshot := h.loadSnapshot(c.Request.Context(), middleware.LoggerFromContext(c))
	render(c, http.StatusOK, "projects", gin.H{
		"Title": "Projects",
		"Items": snapshot.Projects,
	})
}

// ContactForm 渲染公开联系表单。
func (h *PublicHandler) ContactForm(c *gin.Context) {
	render(c, http.StatusOK, "contact", gin.H{
		"Title": "Contact",
		"Form":  ContactForm{},
	})
}

// SubmitContact 校验并转发访客留言。校验失败不触达后端，保留已填内容。
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var form ContactForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "contact", gin.H{
			"Title":  "Contact",
			"Form":   form,
			"Errors": FieldErrors(err),
		})
		return
	}

	message, err := h.api.SubmitContact(c.Request.Context(), form)
	if err != nil {
		render(c, http.StatusBadGateway, "contact", gin.H{
			"Title": "Contact",
			"Form":  form,
			"Error": backend.UserMessage(err),
		})
		return
	}

	if message == "" {
		message = "Thanks for reaching out! I'll get back to you soon."
	}
	render(c, http.StatusOK, "contact", gin.H{
		"Title":  "Contact",
		"Form":   ContactForm{},
		"Notice": message,
	})
}
