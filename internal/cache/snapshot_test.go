package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"folioweb/internal/portfolio"
)

type fakeSnapshotRepo struct {
	values map[string]string
	getErr error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{values: map[string]string{}}
}

func (f *fakeSnapshotRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeSnapshotRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if b, ok := value.([]byte); ok {
		f.values[key] = string(b)
	}
	return redis.NewStatusResult("OK", nil)
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := NewSnapshotStore(newFakeSnapshotRepo(), time.Minute, nil)
	snapshot, fresh := store.Load(context.Background())
	if snapshot != nil || fresh {
		t.Fatalf("expected no snapshot, got %v fresh=%v", snapshot, fresh)
	}
}

func TestSaveThenLoadIsFresh(t *testing.T) {
	repo := newFakeSnapshotRepo()
	store := NewSnapshotStore(repo, time.Minute, nil)
	ctx := context.Background()

	store.Save(ctx, &PublicSnapshot{
		Projects: []portfolio.Project{{ID: 1, Title: "Folio"}},
	})

	snapshot, fresh := store.Load(ctx)
	if snapshot == nil || !fresh {
		t.Fatalf("expected fresh snapshot, got %v fresh=%v", snapshot, fresh)
	}
	if len(snapshot.Projects) != 1 || snapshot.Projects[0].Title != "Folio" {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestStaleSnapshotIsReturnedButNotFresh(t *testing.T) {
	repo := newFakeSnapshotRepo()
	store := NewSnapshotStore(repo, time.Minute, nil)
	ctx := context.Background()

	stale := PublicSnapshot{
		Projects:  []portfolio.Project{{ID: 1}},
		FetchedAt: time.Now().Add(-time.Hour),
	}
	data, _ := json.Marshal(stale)
	repo.values[snapshotKey] = string(data)

	snapshot, fresh := store.Load(ctx)
	if snapshot == nil {
		t.Fatal("stale snapshot must still be loadable as a fallback")
	}
	if fresh {
		t.Error("hour-old snapshot must not be considered fresh")
	}
}

func TestLoadSurvivesRedisFailure(t *testing.T) {
	repo := newFakeSnapshotRepo()
	repo.getErr = errors.New("connection refused")
	store := NewSnapshotStore(repo, time.Minute, nil)

	snapshot, fresh := store.Load(context.Background())
	if snapshot != nil || fresh {
		t.Fatalf("expected graceful miss, got %v fresh=%v", snapshot, fresh)
	}
}
