package portfolio

import (
	"sort"
	"strings"
	"time"
)

// Profile 是站点主人公的单例档案，由后端持久化。
type Profile struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Experience 表示一段工作经历，end_date 为空代表在职。
type Experience struct {
	ID             int    `json:"id"`
	Role           string `json:"role"`
	Company        string `json:"company"`
	Location       string `json:"location,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	Description    string `json:"description"`
	Technologies   string `json:"technologies,omitempty"`
}

// Skill is a single skill with a 1-5 proficiency level.
type Skill struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Level       int    `json:"level"`
	Description string `json:"description,omitempty"`
}

// Organization 表示一段组织/社团经历，duration 由起止日期派生后随表单一并提交。
type Organization struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description"`
	Duration    string `json:"duration,omitempty"`
}

// Project is a portfolio project entry.
type Project struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description"`
	Technologies string `json:"technologies,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	DemoURL      string `json:"demo_url,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Status       string `json:"status,omitempty"`
	Featured     bool   `json:"featured"`
}

// ContactMessage 为访客留言，正文提交后不可修改，仅 is_read 可翻转。
type ContactMessage struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Admin is the authenticated principal returned by the backend.
type Admin struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// SkillCategories lists the allowed skill categories in display order.
var SkillCategories = []string{
	"Frontend", "Backend", "Database", "DevOps", "Mobile", "Design", "Tools", "Other",
}

// ProjectStatuses lists the allowed project statuses.
var ProjectStatuses = []string{"planned", "in-progress", "completed"}

// EmploymentTypes lists the selectable employment types.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Freelance", "Internship"}

var skillLevelLabels = map[int]string{
	1: "Beginner",
	2: "Basic",
	3: "Intermediate",
	4: "Advanced",
	5: "Expert",
}

// SkillLevelLabel returns a human label for a 1-5 level.
func SkillLevelLabel(level int) string {
	if label, ok := skillLevelLabels[level]; ok {
		return label
	}
	return "Unknown"
}

// SkillLevelPercent converts the 1-5 level to the 0-100 scale used on public pages.
func SkillLevelPercent(level int) int {
	if level < 1 {
		return 0
	}
	if level > 5 {
		return 100
	}
	return level * 20
}

const wireDateLayout = "2006-01-02"

// FormatDate 将 wire 层日期渲染为 "Jan 2006"，空值渲染为 Present。
func FormatDate(date string) string {
	if strings.TrimSpace(date) == "" {
		return "Present"
	}
	t, err := time.Parse(wireDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2006")
}

// DeriveDuration builds the "<startYear> - <endYear|Present>" display string
// submitted alongside the raw organization dates.
func DeriveDuration(startDate, endDate string) string {
	start, err := time.Parse(wireDateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return "Unknown"
	}
	end := "Present"
	if t, err := time.Parse(wireDateLayout, strings.TrimSpace(endDate)); err == nil {
		end = t.Format("2006")
	}
	return start.Format("2006") + " - " + end
}

// TechnologyList splits a comma separated technologies field into trimmed items.
func TechnologyList(technologies string) []string {
	parts := strings.Split(technologies, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// MessageStatusFilter 取值 all/read/unread。
type MessageStatusFilter string

const (
	MessageFilterAll    MessageStatusFilter = "all"
	MessageFilterUnread MessageStatusFilter = "unread"
	MessageFilterRead   MessageStatusFilter = "read"
)

// FilterMessages applies the inbox search and read-status predicates over an
// already-fetched collection; it never re-queries the backend.
func FilterMessages(messages []ContactMessage, search string, status MessageStatusFilter) []ContactMessage {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]ContactMessage, 0, len(messages))
	for _, m := range messages {
		if term != "" {
			matches := strings.Contains(strings.ToLower(m.Name), term) ||
				strings.Contains(strings.ToLower(m.Email), term) ||
				strings.Contains(strings.ToLower(m.Message), term)
			if !matches {
				continue
			}
		}
		switch status {
		case MessageFilterUnread:
			if m.IsRead {
				continue
			}
		case MessageFilterRead:
			if !m.IsRead {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// UnreadCount counts messages whose read flag is unset.
func UnreadCount(messages []ContactMessage) int {
	count := 0
	for _, m := range messages {
		if !m.IsRead {
			count++
		}
	}
	return count
}

// SortByStartDateDesc 按开始日期倒序排列（公共页面展示顺序），不修改入参。
// wire 层日期为 ISO 格式，字典序即时间序。
func SortByStartDateDesc[T any](items []T, startDate func(T) string) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return startDate(sorted[i]) > startDate(sorted[j])
	})
	return sorted
}

// GroupSkills buckets skills by category in SkillCategories order; categories
// outside the enum fall into Other.
func GroupSkills(skills []Skill) map[string][]Skill {
	known := make(map[string]bool, len(SkillCategories))
	for _, c := range SkillCategories {
		known[c] = true
	}
	grouped := make(map[string][]Skill)
	for _, s := range skills {
		category := s.Category
		if !known[category] {
			category = "Other"
		}
		grouped[category] = append(grouped[category], s)
	}
	return grouped
}
