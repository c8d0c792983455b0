package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type tokenContextKey struct{}

// WithToken 将会话令牌放入请求上下文，之后的所有后端调用都会带上它。
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey{}).(string); ok {
		return token
	}
	return ""
}

type correlationContextKey struct{}

// CorrelationIDHeader 是贯穿入站请求与出站后端调用的追踪头。
const CorrelationIDHeader = "X-Correlation-ID"

// WithCorrelationID 将入站请求的 Correlation ID 放入上下文，
// 后端调用会原样转发，跨服务日志得以串联。
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationContextKey{}, id)
}

func correlationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationContextKey{}).(string); ok {
		return id
	}
	return ""
}

// Client wraps HTTP access to the REST backend: base URL, uniform timeout,
// bearer attachment and the global 401 side effect.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized func(ctx context.Context)
}

// New 构造后端客户端。超时统一作用于每个请求。
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SetUnauthorizedHook installs the global side effect invoked whenever any
// call receives a 401, independent of which call triggered it.
func (c *Client) SetUnauthorizedHook(hook func(ctx context.Context)) {
	c.onUnauthorized = hook
}

type requestOptions struct {
	skipUnauthorizedHook bool
}

// envelope 为后端统一的 {data: ...} 包裹结构。
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, payload any, opts requestOptions) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	targetURL := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := tokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := correlationIDFromContext(ctx); id != "" {
		req.Header.Set(CorrelationIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return nil, fmt.Errorf("request %s %s timed out: %w", method, path, err)
		}
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil && !opts.skipUnauthorizedHook {
			c.onUnauthorized(ctx)
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(data)}
		c.logger.Warn("backend call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, apiErr
	}

	return data, nil
}

// getData 执行请求并解开 {data: ...} 包裹；data 缺失时返回 nil。
func (c *Client) getData(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	body, err := c.do(ctx, method, path, payload, requestOptions{})
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	return env.Data, nil
}

// extractMessage 从错误负载中取出用户可见消息，兼容 message 与 error 两种字段。
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "request failed"
}
