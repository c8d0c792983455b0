package web

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"folioweb/internal/portfolio"
)

// 表单结构同时承担两件事：gin 绑定校验（form/binding 标签）与提交给后端
// 的载荷（json 标签）。校验不通过时不会发起任何后端调用。

// LoginForm 是管理端登录表单。
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// ProfileForm 是单例档案表单。
type ProfileForm struct {
	Name      string `form:"name" json:"name" binding:"required,min=2"`
	Title     string `form:"title" json:"title" binding:"required"`
	Bio       string `form:"bio" json:"bio" binding:"required"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Phone     string `form:"phone" json:"phone,omitempty"`
	Location  string `form:"location" json:"location,omitempty"`
	Website   string `form:"website" json:"website,omitempty"`
	GitHub    string `form:"github" json:"github,omitempty"`
	LinkedIn  string `form:"linkedin" json:"linkedin,omitempty"`
	Twitter   string `form:"twitter" json:"twitter,omitempty"`
	Instagram string `form:"instagram" json:"instagram,omitempty"`
	PhotoURL  string `form:"photo_url" json:"photo_url,omitempty"`
}

// ExperienceForm 是工作经历表单。
type ExperienceForm struct {
	Role           string `form:"role" json:"role" binding:"required"`
	Company        string `form:"company" json:"company" binding:"required"`
	Location       string `form:"location" json:"location,omitempty"`
	EmploymentType string `form:"employment_type" json:"employment_type,omitempty"`
	StartDate      string `form:"start_date" json:"start_date" binding:"required"`
	EndDate        string `form:"end_date" json:"end_date,omitempty"`
	Description    string `form:"description" json:"description" binding:"required"`
	Technologies   string `form:"technologies" json:"technologies,omitempty"`
}

// SkillForm 是技能表单，level 限定在 1-5。
type SkillForm struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Category    string `form:"category" json:"category" binding:"required"`
	Level       int    `form:"level" json:"level" binding:"required,gte=1,lte=5"`
	Description string `form:"description" json:"description,omitempty"`
}

// OrganizationForm 是组织经历表单。Duration 在提交前由起止日期派生。
type OrganizationForm struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Role        string `form:"role" json:"role" binding:"required"`
	Location    string `form:"location" json:"location,omitempty"`
	Website     string `form:"website" json:"website,omitempty"`
	StartDate   string `form:"start_date" json:"start_date" binding:"required"`
	EndDate     string `form:"end_date" json:"end_date,omitempty"`
	Description string `form:"description" json:"description" binding:"required"`
	Duration    string `form:"-" json:"duration,omitempty"`
}

// ProjectForm 是项目表单。
type ProjectForm struct {
	Title        string `form:"title" json:"title" binding:"required"`
	Category     string `form:"category" json:"category,omitempty"`
	Description  string `form:"description" json:"description" binding:"required"`
	Technologies string `form:"technologies" json:"technologies" binding:"required"`
	GitHubURL    string `form:"github_url" json:"github_url,omitempty"`
	DemoURL      string `form:"demo_url" json:"demo_url,omitempty"`
	StartDate    string `form:"start_date" json:"start_date,omitempty"`
	EndDate      string `form:"end_date" json:"end_date,omitempty"`
	ImageURL     string `form:"image_url" json:"image_url,omitempty"`
	Status       string `form:"status" json:"status,omitempty"`
	Featured     bool   `form:"featured" json:"featured"`
}

// ContactForm 是公开联系表单。
type ContactForm struct {
	Name    string `form:"name" json:"name" binding:"required,min=2"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Phone   string `form:"phone" json:"phone,omitempty"`
	Message string `form:"message" json:"message" binding:"required,min=10"`
}

// FieldErrors 把绑定校验错误映射为 字段名 -> 用户可见消息。
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["Form"] = "Invalid form submission."
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fieldErrorMessage(fe)
	}
	return out
}

func fieldErrorMessage(fe validator.FieldError) string {
	label := humanizeField(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "gte", "lte":
		return label + " must be between 1 and 5"
	default:
		return label + " is invalid"
	}
}

// humanizeField 将 StartDate 变成 "Start date" 这样的展示名。
func humanizeField(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// experienceForm 按显式字段映射从记录预填表单（不做反射遍历）。
func experienceForm(e portfolio.Experience) ExperienceForm {
	return ExperienceForm{
		Role:           e.Role,
		Company:        e.Company,
		Location:       e.Location,
		EmploymentType: e.EmploymentType,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		Description:    e.Description,
		Technologies:   e.Technologies,
	}
}

func skillForm(s portfolio.Skill) SkillForm {
	return SkillForm{
		Name:        s.Name,
		Category:    s.Category,
		Level:       s.Level,
		Description: s.Description,
	}
}

func organizationForm(o portfolio.Organization) OrganizationForm {
	return OrganizationForm{
		Name:        o.Name,
		Role:        o.Role,
		Location:    o.Location,
		Website:     o.Website,
		StartDate:   o.StartDate,
		EndDate:     o.EndDate,
		Description: o.Description,
		Duration:    o.Duration,
	}
}

func projectForm(p portfolio.Project) ProjectForm {
	return ProjectForm{
		Title:        p.Title,
		Category:     p.Category,
		Description:  p.Description,
		Technologies: p.Technologies,
		GitHubURL:    p.GitHubURL,
		DemoURL:      p.DemoURL,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		ImageURL:     p.ImageURL,
		Status:       p.Status,
		Featured:     p.Featured,
	}
}

func profileForm(p portfolio.Profile) ProfileForm {
	return ProfileForm{
		Name:      p.Name,
		Title:     p.Title,
		Bio:       p.Bio,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Website:   p.Website,
		GitHub:    p.GitHub,
		LinkedIn:  p.LinkedIn,
		Twitter:   p.Twitter,
		Instagram: p.Instagram,
		PhotoURL:  p.PhotoURL,
	}
}
