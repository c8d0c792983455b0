package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"folioweb/internal/portfolio"
)

// API 暴露面向门户各实体的类型化访问入口。
type API struct {
	client *Client

	Experiences   *Resource[portfolio.Experience]
	Skills        *Resource[portfolio.Skill]
	Organizations *Resource[portfolio.Organization]
	Projects      *Resource[portfolio.Project]
	Messages      *Resource[portfolio.ContactMessage]
}

// NewAPI wires the per-entity resources onto a shared client.
func NewAPI(client *Client) *API {
	return &API{
		client:        client,
		Experiences:   NewResource[portfolio.Experience](client, "experiences"),
		Skills:        NewResource[portfolio.Skill](client, "skills"),
		Organizations: NewResource[portfolio.Organization](client, "organizations"),
		Projects:      NewResource[portfolio.Project](client, "projects"),
		Messages:      NewResource[portfolio.ContactMessage](client, "contact"),
	}
}

// LoginResult 携带登录成功后的令牌、管理员身份与用户可见消息。
type LoginResult struct {
	Token   string          `json:"token"`
	Admin   portfolio.Admin `json:"admin"`
	Message string          `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 交换凭证。认证失败不触发全局 401 副作用（调用方还未持有会话）。
func (a *API) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body, err := a.client.do(ctx, http.MethodPost, "auth/login",
		loginRequest{Username: username, Password: password},
		requestOptions{skipUnauthorizedHook: true},
	)
	if err != nil {
		return LoginResult{}, err
	}
	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	return result, nil
}

// Verify validates the bearer token carried by the context and returns the
// admin identity.
func (a *API) Verify(ctx context.Context) (portfolio.Admin, error) {
	body, err := a.client.do(ctx, http.MethodGet, "auth/verify", nil,
		requestOptions{skipUnauthorizedHook: true})
	if err != nil {
		return portfolio.Admin{}, err
	}
	var payload struct {
		Admin portfolio.Admin `json:"admin"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return portfolio.Admin{}, fmt.Errorf("decode verify response: %w", err)
	}
	return payload.Admin, nil
}

// GetProfile returns the singleton profile; found is false when no profile
// exists yet (absent data or 404 are "no data yet", not errors).
func (a *API) GetProfile(ctx context.Context) (portfolio.Profile, bool, error) {
	data, err := a.client.getData(ctx, http.MethodGet, "profile", nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return portfolio.Profile{}, false, nil
		}
		return portfolio.Profile{}, false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return portfolio.Profile{}, false, nil
	}
	var profile portfolio.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return portfolio.Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return profile, true, nil
}

// SaveProfile 按单例语义提交档案：不存在则 POST，存在则 PUT。
func (a *API) SaveProfile(ctx context.Context, payload any, exists bool) (portfolio.Profile, error) {
	method := http.MethodPost
	if exists {
		method = http.MethodPut
	}
	data, err := a.client.getData(ctx, method, "profile", payload)
	if err != nil {
		return portfolio.Profile{}, err
	}
	var profile portfolio.Profile
	if len(data) == 0 || string(data) == "null" {
		return portfolio.Profile{}, ErrNoData
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return portfolio.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

// GroupedSkills fetches the category-bucketed skill map the backend serves
// for the public skills page.
func (a *API) GroupedSkills(ctx context.Context) (map[string][]portfolio.Skill, error) {
	data, err := a.client.getData(ctx, http.MethodGet, "skills/grouped", nil)
	if err != nil {
		return nil, err
	}
	grouped := map[string][]portfolio.Skill{}
	if len(data) == 0 || string(data) == "null" {
		return grouped, nil
	}
	if err := json.Unmarshal(data, &grouped); err != nil {
		return nil, fmt.Errorf("decode grouped skills: %w", err)
	}
	return grouped, nil
}

// FeaturedProjects fetches the featured subset for the home page.
func (a *API) FeaturedProjects(ctx context.Context) ([]portfolio.Project, error) {
	data, err := a.client.getData(ctx, http.MethodGet, "projects/featured", nil)
	if err != nil {
		return nil, err
	}
	projects := []portfolio.Project{}
	if len(data) == 0 || string(data) == "null" {
		return projects, nil
	}
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode featured projects: %w", err)
	}
	return projects, nil
}

// SubmitContact 提交公开联系表单，返回后端的确认消息。
func (a *API) SubmitContact(ctx context.Context, payload any) (string, error) {
	body, err := a.client.do(ctx, http.MethodPost, "contact", payload,
		requestOptions{skipUnauthorizedHook: true})
	if err != nil {
		return "", err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil
	}
	return env.Message, nil
}

// MarkMessageRead flips the read flag on a contact message.
func (a *API) MarkMessageRead(ctx context.Context, id int) error {
	_, err := a.client.do(ctx, http.MethodPatch, "contact/"+strconv.Itoa(id)+"/read", nil, requestOptions{})
	return err
}
