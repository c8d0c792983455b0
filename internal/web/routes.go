package web

import (
	"github.com/gin-gonic/gin"

	"folioweb/internal/backend"
	"folioweb/internal/cache"
	"folioweb/internal/portfolio"
	"folioweb/internal/session"
	"folioweb/internal/web/middleware"
)

// RegisterRoutes 注册公共页面、登录流程与受守卫的管理端路由。
func RegisterRoutes(
	router *gin.Engine,
	api *backend.API,
	store *session.Store,
	snapshots *cache.SnapshotStore,
) {
	NewPublicHandler(api, snapshots).Register(router)

	authHandler := NewAuthHandler(store)
	router.GET(middleware.LoginPath, authHandler.ShowLogin)
	router.POST(middleware.LoginPath, authHandler.Login)
	router.POST("/admin/logout", authHandler.Logout)

	admin := router.Group("/admin")
	admin.Use(middleware.SessionGuard(store))
	{
		admin.GET("", NewDashboardHandler(api).Show)

		NewProfileHandler(api).Register(admin)
		NewContactInboxHandler(api).Register(admin)

		NewResourceController(ResourceConfig[portfolio.Experience, ExperienceForm]{
			Name:           "Experience",
			Slug:           "experiences",
			Resource:       api.Experiences,
			ListTemplate:   "admin_experiences_list",
			FormTemplate:   "admin_experiences_form",
			FormFromRecord: experienceForm,
		}).Register(admin)

		NewResourceController(ResourceConfig[portfolio.Skill, SkillForm]{
			Name:           "Skill",
			Slug:           "skills",
			Resource:       api.Skills,
			ListTemplate:   "admin_skills_list",
			FormTemplate:   "admin_skills_form",
			FormFromRecord: skillForm,
		}).Register(admin)

		NewResourceController(ResourceConfig[portfolio.Organization, OrganizationForm]{
			Name:           "Organization",
			Slug:           "organizations",
			Resource:       api.Organizations,
			ListTemplate:   "admin_organizations_list",
			FormTemplate:   "admin_organizations_form",
			FormFromRecord: organizationForm,
			// 提交前由起止日期派生 duration，与原始日期一并发往后端。
			BeforeSubmit: func(f *OrganizationForm) {
				f.Duration = portfolio.DeriveDuration(f.StartDate, f.EndDate)
			},
		}).Register(admin)

		NewResourceController(ResourceConfig[portfolio.Project, ProjectForm]{
			Name:           "Project",
			Slug:           "projects",
			Resource:       api.Projects,
			ListTemplate:   "admin_projects_list",
			FormTemplate:   "admin_projects_form",
			FormFromRecord: projectForm,
		}).Register(admin)
	}
}
