package web

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"folioweb/internal/backend"
	"folioweb/internal/portfolio"
	"folioweb/internal/web/middleware"
)

// DashboardHandler 渲染管理端首页的各实体计数与最近留言。
type DashboardHandler struct {
	api *backend.API
}

// NewDashboardHandler 构造仪表盘处理器。
func NewDashboardHandler(api *backend.API) *DashboardHandler {
	return &DashboardHandler{api: api}
}

// DashboardStats 聚合各集合的数量；拉取失败的集合计为 0。
type DashboardStats struct {
	Projects      int
	Skills        int
	Experiences   int
	Organizations int
	Messages      int
	Unread        int
}

// Show 并发拉取五个集合并汇总计数。任一 401 仍然走全局登出流程。
func (h *DashboardHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	var (
		stats    DashboardStats
		messages []portfolio.ContactMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := h.api.Projects.List(gctx)
		stats.Projects = countOrZero(logger, "projects", items, err)
		return unauthorizedOnly(err)
	})
	g.Go(func() error {
		items, err := h.api.Skills.List(gctx)
		stats.Skills = countOrZero(logger, "skills", items, err)
		return unauthorizedOnly(err)
	})
	g.Go(func() error {
		items, err := h.api.Experiences.List(gctx)
		stats.Experiences = countOrZero(logger, "experiences", items, err)
		return unauthorizedOnly(err)
	})
	g.Go(func() error {
		items, err := h.api.Organizations.List(gctx)
		stats.Organizations = countOrZero(logger, "organizations", items, err)
		return unauthorizedOnly(err)
	})
	g.Go(func() error {
		items, err := h.api.Messages.List(gctx)
		if err == nil {
			messages = items
		}
		stats.Messages = countOrZero(logger, "messages", items, err)
		return unauthorizedOnly(err)
	})

	if err := g.Wait(); redirectIfUnauthorized(c, err) {
		return
	}

	stats.Unread = portfolio.UnreadCount(messages)
	render(c, http.StatusOK, "admin_dashboard", gin.H{
		"Title":  "Dashboard",
		"Stats":  stats,
		"Recent": recentMessages(messages, 5),
	})
}

func countOrZero[T any](logger *slog.Logger, name string, items []T, err error) int {
	if err != nil {
		if !errors.Is(err, backend.ErrUnauthorized) {
			logger.Warn("dashboard count unavailable", slog.String("resource", name), slog.Any("error", err))
		}
		return 0
	}
	return len(items)
}

// unauthorizedOnly 只向上冒泡 401，其余失败已降级为计数 0。
func unauthorizedOnly(err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return err
	}
	return nil
}

func recentMessages(messages []portfolio.ContactMessage, limit int) []portfolio.ContactMessage {
	sorted := make([]portfolio.ContactMessage, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
