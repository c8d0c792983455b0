package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"folioweb/internal/portfolio"
)

// PublicSnapshot 是公共页面渲染所需的一次性数据快照。
type PublicSnapshot struct {
	Profile       *portfolio.Profile            `json:"profile,omitempty"`
	Experiences   []portfolio.Experience        `json:"experiences"`
	Skills        map[string][]portfolio.Skill  `json:"skills"`
	Organizations []portfolio.Organization      `json:"organizations"`
	Projects      []portfolio.Project           `json:"projects"`
	Featured      []portfolio.Project           `json:"featured"`
	FetchedAt     time.Time                     `json:"fetched_at"`
}

const snapshotKey = "cache:public:snapshot"

type snapshotRepo interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SnapshotStore 在 Redis 中保存公共数据快照：TTL 内直接命中，
// TTL 外仍保留旧值作为后端故障时的降级数据。
type SnapshotStore struct {
	redis  snapshotRepo
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotStore 构造快照缓存。
func NewSnapshotStore(redisClient snapshotRepo, ttl time.Duration, logger *slog.Logger) *SnapshotStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{redis: redisClient, ttl: ttl, logger: logger}
}

// Load returns the stored snapshot and whether it is still fresh.
func (s *SnapshotStore) Load(ctx context.Context) (*PublicSnapshot, bool) {
	raw, err := s.redis.Get(ctx, snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("load public snapshot failed", slog.Any("error", err))
		return nil, false
	}

	var snapshot PublicSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logger.Warn("decode public snapshot failed", slog.Any("error", err))
		return nil, false
	}
	return &snapshot, time.Since(snapshot.FetchedAt) <= s.ttl
}

// Save persists the snapshot. 记录不设过期时间，过期判定基于 FetchedAt，
// 这样后端不可用时旧快照仍可兜底。
func (s *SnapshotStore) Save(ctx context.Context, snapshot *PublicSnapshot) {
	snapshot.FetchedAt = time.Now()
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("encode public snapshot failed", slog.Any("error", err))
		return
	}
	if err := s.redis.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		s.logger.Warn("store public snapshot failed", slog.Any("error", err))
	}
}
