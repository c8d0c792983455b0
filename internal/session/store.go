package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"folioweb/internal/backend"
	"folioweb/internal/portfolio"
)

// State 表示会话判定结果。验证请求本身失败时为 Unknown，
// 此时调用方不应把用户当作未登录处理。
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

// Session is the resolved admin session for one request.
type Session struct {
	ID         string
	Token      string
	Admin      portfolio.Admin
	VerifiedAt time.Time
}

type record struct {
	Token      string          `json:"token"`
	Admin      portfolio.Admin `json:"admin"`
	VerifiedAt time.Time       `json:"verified_at"`
}

const sessionKeyPrefix = "session:admin:"

// authBackend 抽象登录与令牌校验两个后端调用，便于测试替身。
type authBackend interface {
	Login(ctx context.Context, username, password string) (backend.LoginResult, error)
	Verify(ctx context.Context) (portfolio.Admin, error)
}

type sessionRepo interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store 是"当前谁在登录"的唯一事实来源：令牌与管理员身份存放在 Redis，
// 浏览器只持有签名后的会话 ID。
type Store struct {
	redis      sessionRepo
	auth       authBackend
	signingKey []byte
	ttl        time.Duration
	verifyTTL  time.Duration
	logger     *slog.Logger
}

// NewStore 构造会话存储。
func NewStore(redisClient sessionRepo, auth authBackend, signingKey string, ttl, verifyTTL time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		redis:      redisClient,
		auth:       auth,
		signingKey: []byte(signingKey),
		ttl:        ttl,
		verifyTTL:  verifyTTL,
		logger:     logger,
	}
}

// LoginResult 是登录操作的用户可见结果，从不以 error 形式抛给调用方。
type LoginResult struct {
	OK      bool
	Message string
	Cookie  string
}

// Login exchanges credentials at the backend; on success it persists the
// token and principal under a fresh session id and returns the signed
// cookie value.
func (s *Store) Login(ctx context.Context, username, password string) LoginResult {
	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Info("login failed", slog.String("username", username), slog.Any("error", err))
		return LoginResult{OK: false, Message: backend.UserMessage(err)}
	}
	if result.Token == "" {
		return LoginResult{OK: false, Message: "Login failed"}
	}

	sid := uuid.NewString()
	data, err := json.Marshal(record{
		Token:      result.Token,
		Admin:      result.Admin,
		VerifiedAt: time.Now(),
	})
	if err != nil {
		return LoginResult{OK: false, Message: "Something went wrong. Please try again."}
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+sid, data, s.ttl).Err(); err != nil {
		s.logger.Error("persist session failed", slog.Any("error", err))
		return LoginResult{OK: false, Message: "Something went wrong. Please try again."}
	}

	cookie, err := signSessionID(sid, s.signingKey, s.ttl)
	if err != nil {
		_ = s.redis.Del(ctx, sessionKeyPrefix+sid).Err()
		return LoginResult{OK: false, Message: "Something went wrong. Please try again."}
	}

	message := result.Message
	if message == "" {
		message = "Login successful"
	}
	s.logger.Info("admin logged in", slog.String("username", result.Admin.Username))
	return LoginResult{OK: true, Message: message, Cookie: cookie}
}

// Logout 删除 Cookie 指向的会话记录，幂等。
func (s *Store) Logout(ctx context.Context, cookieValue string) {
	sid, err := parseSessionID(cookieValue, s.signingKey)
	if err != nil {
		return
	}
	s.Destroy(ctx, sid)
}

// Destroy removes a session record by id. Also invoked by the global 401
// side effect.
func (s *Store) Destroy(ctx context.Context, sid string) {
	if sid == "" {
		return
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		s.logger.Warn("delete session failed", slog.Any("error", err))
	}
}

// Resolve 恢复并验证会话。三态结果：
//   - Anonymous：无 Cookie、Cookie 无效或会话记录不存在/令牌失效；
//   - Authenticated：验证通过（短期内的重复验证走缓存判定）；
//   - Unknown：验证请求本身失败，无法下结论。
func (s *Store) Resolve(ctx context.Context, cookieValue string) (*Session, State) {
	sid, err := parseSessionID(cookieValue, s.signingKey)
	if err != nil {
		return nil, StateAnonymous
	}

	raw, err := s.redis.Get(ctx, sessionKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return nil, StateAnonymous
	}
	if err != nil {
		s.logger.Error("load session failed", slog.Any("error", err))
		return nil, StateUnknown
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.Destroy(ctx, sid)
		return nil, StateAnonymous
	}

	sess := &Session{ID: sid, Token: rec.Token, Admin: rec.Admin, VerifiedAt: rec.VerifiedAt}
	if time.Since(rec.VerifiedAt) <= s.verifyTTL {
		return sess, StateAuthenticated
	}

	admin, err := s.auth.Verify(backend.WithToken(ctx, rec.Token))
	switch {
	case err == nil:
		rec.Admin = admin
		rec.VerifiedAt = time.Now()
		if data, err := json.Marshal(rec); err == nil {
			if err := s.redis.Set(ctx, sessionKeyPrefix+sid, data, s.ttl).Err(); err != nil {
				s.logger.Warn("refresh session failed", slog.Any("error", err))
			}
		}
		sess.Admin = admin
		sess.VerifiedAt = rec.VerifiedAt
		return sess, StateAuthenticated
	case errors.Is(err, backend.ErrUnauthorized):
		s.logger.Info("session token rejected, destroying session", slog.String("sid", sid))
		s.Destroy(ctx, sid)
		return nil, StateAnonymous
	default:
		s.logger.Warn("session verification unavailable", slog.Any("error", err))
		return sess, StateUnknown
	}
}

type sidContextKey struct{}

// WithSID 将会话 ID 放入上下文，供全局 401 副作用定位待销毁的会话。
func WithSID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidContextKey{}, sid)
}

// SIDFromContext returns the session id carried by the context, if any.
func SIDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(sidContextKey{}).(string); ok {
		return sid
	}
	return ""
}
