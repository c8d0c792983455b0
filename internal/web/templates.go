package web

import (
	"embed"
	"html/template"
	"time"

	"folioweb/internal/portfolio"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"formatDate":      portfolio.FormatDate,
	"levelLabel":      portfolio.SkillLevelLabel,
	"levelPercent":    portfolio.SkillLevelPercent,
	"techList":        portfolio.TechnologyList,
	"skillCategories": func() []string { return portfolio.SkillCategories },
	"projectStatuses": func() []string { return portfolio.ProjectStatuses },
	"employmentTypes": func() []string { return portfolio.EmploymentTypes },
	"formatTime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
}

func mustTemplates() *template.Template {
	return template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.tmpl"),
	)
}
