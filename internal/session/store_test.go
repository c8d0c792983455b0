package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"folioweb/internal/backend"
	"folioweb/internal/portfolio"
)

type fakeSessionRepo struct {
	values map[string]string
	getErr error
	dels   []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{values: map[string]string{}}
}

func (f *fakeSessionRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeSessionRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeSessionRepo) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		f.dels = append(f.dels, key)
		delete(f.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type fakeAuth struct {
	loginResult backend.LoginResult
	loginErr    error
	verifyAdmin portfolio.Admin
	verifyErr   error
	verifyCalls int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (backend.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuth) Verify(ctx context.Context) (portfolio.Admin, error) {
	f.verifyCalls++
	return f.verifyAdmin, f.verifyErr
}

func newTestStore(repo *fakeSessionRepo, auth *fakeAuth, verifyTTL time.Duration) *Store {
	return NewStore(repo, auth, "test-signing-key", time.Hour, verifyTTL, nil)
}

func TestLoginPersistsSessionAndSignsCookie(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{loginResult: backend.LoginResult{
		Token:   "bearer-token",
		Admin:   portfolio.Admin{ID: 1, Username: "admin"},
		Message: "Login successful",
	}}
	store := newTestStore(repo, auth, 5*time.Minute)

	result := store.Login(context.Background(), "admin", "secret")
	if !result.OK {
		t.Fatalf("expected login success, got message %q", result.Message)
	}
	if result.Cookie == "" {
		t.Fatal("expected signed cookie value")
	}
	if len(repo.values) != 1 {
		t.Fatalf("expected one session record, got %d", len(repo.values))
	}

	sess, state := store.Resolve(context.Background(), result.Cookie)
	if state != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", state)
	}
	if sess.Token != "bearer-token" || sess.Admin.Username != "admin" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if auth.verifyCalls != 0 {
		t.Errorf("fresh session must not re-verify, got %d calls", auth.verifyCalls)
	}
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{loginErr: &backend.APIError{Status: 401, Message: "Invalid credentials"}}
	store := newTestStore(repo, auth, 5*time.Minute)

	result := store.Login(context.Background(), "admin", "wrong")
	if result.OK {
		t.Fatal("expected login failure")
	}
	if result.Message != "Invalid credentials" {
		t.Errorf("message = %q, want backend message", result.Message)
	}
	if len(repo.values) != 0 {
		t.Errorf("no session should be persisted, got %v", repo.values)
	}
}

func TestResolveWithoutCookieIsAnonymous(t *testing.T) {
	store := newTestStore(newFakeSessionRepo(), &fakeAuth{}, 5*time.Minute)
	if _, state := store.Resolve(context.Background(), ""); state != StateAnonymous {
		t.Errorf("state = %v, want anonymous", state)
	}
	if _, state := store.Resolve(context.Background(), "not-a-jwt"); state != StateAnonymous {
		t.Errorf("garbage cookie: state = %v, want anonymous", state)
	}
}

func TestResolveMissingRecordIsAnonymous(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{loginResult: backend.LoginResult{Token: "tok", Admin: portfolio.Admin{Username: "admin"}}}
	store := newTestStore(repo, auth, 5*time.Minute)

	result := store.Login(context.Background(), "admin", "secret")
	store.Logout(context.Background(), result.Cookie)

	if _, state := store.Resolve(context.Background(), result.Cookie); state != StateAnonymous {
		t.Errorf("state = %v, want anonymous after logout", state)
	}
}

func TestResolveRedisFailureIsUnknown(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{loginResult: backend.LoginResult{Token: "tok", Admin: portfolio.Admin{Username: "admin"}}}
	store := newTestStore(repo, auth, 5*time.Minute)

	result := store.Login(context.Background(), "admin", "secret")
	repo.getErr = errors.New("connection refused")

	if _, state := store.Resolve(context.Background(), result.Cookie); state != StateUnknown {
		t.Errorf("state = %v, want unknown on redis failure", state)
	}
}

func TestResolveRejectedTokenDestroysSession(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{loginResult: backend.LoginResult{Token: "tok", Admin: portfolio.Admin{Username: "admin"}}}
	// verifyTTL 0 forces re-verification on every resolve
	store := newTestStore(repo, auth, 0)

	result := store.Login(context.Background(), "admin", "secret")
	auth.verifyErr = &backend.APIError{Status: 401, Message: "Token expired"}

	if _, state := store.Resolve(context.Background(), result.Cookie); state != StateAnonymous {
		t.Fatalf("state = %v, want anonymous for rejected token", state)
	}
	if len(repo.values) != 0 {
		t.Errorf("session record should be destroyed, got %v", repo.values)
	}
}

func TestResolveVerifyUnavailableIsUnknown(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{loginResult: backend.LoginResult{Token: "tok", Admin: portfolio.Admin{Username: "admin"}}}
	store := newTestStore(repo, auth, 0)

	result := store.Login(context.Background(), "admin", "secret")
	auth.verifyErr = errors.New("dial tcp: connection refused")

	sess, state := store.Resolve(context.Background(), result.Cookie)
	if state != StateUnknown {
		t.Fatalf("state = %v, want unknown when verification is unavailable", state)
	}
	if sess == nil || sess.Token != "tok" {
		t.Errorf("session should be returned for the caller to retry, got %+v", sess)
	}
	if len(repo.values) != 1 {
		t.Errorf("session record must survive a transient verify failure")
	}
}

func TestResolveRefreshesStaleVerification(t *testing.T) {
	repo := newFakeSessionRepo()
	auth := &fakeAuth{
		loginResult: backend.LoginResult{Token: "tok", Admin: portfolio.Admin{Username: "admin"}},
		verifyAdmin: portfolio.Admin{ID: 1, Username: "admin", Email: "admin@example.com"},
	}
	store := newTestStore(repo, auth, 0)

	result := store.Login(context.Background(), "admin", "secret")
	sess, state := store.Resolve(context.Background(), result.Cookie)
	if state != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", state)
	}
	if auth.verifyCalls != 1 {
		t.Errorf("verify calls = %d, want 1", auth.verifyCalls)
	}
	if sess.Admin.Email != "admin@example.com" {
		t.Errorf("admin identity should be refreshed from verify, got %+v", sess.Admin)
	}
}

func TestCookieRoundTrip(t *testing.T) {
	key := []byte("test-signing-key")
	cookie, err := signSessionID("sid-123", key, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sid, err := parseSessionID(cookie, key)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sid != "sid-123" {
		t.Errorf("sid = %q", sid)
	}
}

func TestCookieRejectsWrongKey(t *testing.T) {
	cookie, err := signSessionID("sid-123", []byte("key-one"), time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parseSessionID(cookie, []byte("key-two")); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestCookieRejectsExpired(t *testing.T) {
	key := []byte("test-signing-key")
	cookie, err := signSessionID("sid-123", key, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parseSessionID(cookie, key); err == nil {
		t.Fatal("expected expired cookie to be rejected")
	}
}
