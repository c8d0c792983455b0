package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"folioweb/internal/portfolio"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second, testLogger()), server
}

func TestListUnwrapsEnvelope(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"id":1,"role":"Engineer","company":"Acme","start_date":"2021-01-01","description":"x"}]}`)
	}))

	resource := NewResource[portfolio.Experience](client, "experiences")
	ctx := WithToken(context.Background(), "tok-123")
	items, err := resource.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Company != "Acme" {
		t.Fatalf("unexpected items: %v", items)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestListMissingDataIsEmptyCollection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"ok"}`)
	}))

	resource := NewResource[portfolio.Skill](client, "skills")
	items, err := resource.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
}

func TestGetMissingDataIsErrNoData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null}`)
	}))

	resource := NewResource[portfolio.Project](client, "projects")
	if _, err := resource.Get(context.Background(), 7); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestUnauthorizedFiresHookAndKeepsMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Token expired"}`)
	}))

	var hookCalls atomic.Int32
	client.SetUnauthorizedHook(func(ctx context.Context) { hookCalls.Add(1) })

	resource := NewResource[portfolio.Experience](client, "experiences")
	_, err := resource.List(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := UserMessage(err); got != "Token expired" {
		t.Errorf("UserMessage = %q, want backend message", got)
	}
	if hookCalls.Load() != 1 {
		t.Errorf("hook calls = %d, want 1", hookCalls.Load())
	}
}

func TestLoginFailureSkipsUnauthorizedHook(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Invalid credentials"}`)
	}))

	var hookCalls atomic.Int32
	client.SetUnauthorizedHook(func(ctx context.Context) { hookCalls.Add(1) })

	api := NewAPI(client)
	_, err := api.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := UserMessage(err); got != "Invalid credentials" {
		t.Errorf("UserMessage = %q", got)
	}
	if hookCalls.Load() != 0 {
		t.Errorf("login must not fire the global 401 hook, got %d calls", hookCalls.Load())
	}
}

func TestGetProfileNotFoundIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"profile not found"}`)
	}))

	api := NewAPI(client)
	_, found, err := api.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if found {
		t.Error("expected found=false for 404")
	}
}

func TestSaveProfileUsesMethodBySingletonState(t *testing.T) {
	var methods []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		io.WriteString(w, `{"data":{"id":1,"name":"Ann"}}`)
	}))

	api := NewAPI(client)
	if _, err := api.SaveProfile(context.Background(), map[string]string{"name": "Ann"}, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := api.SaveProfile(context.Background(), map[string]string{"name": "Ann"}, true); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodPut {
		t.Errorf("methods = %v, want [POST PUT]", methods)
	}
}

func TestSubmitContactReturnsConfirmationMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["name"] != "Ann" {
			t.Errorf("payload name = %v", payload["name"])
		}
		io.WriteString(w, `{"message":"Thanks for your message"}`)
	}))

	api := NewAPI(client)
	message, err := api.SubmitContact(context.Background(), map[string]string{"name": "Ann"})
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if message != "Thanks for your message" {
		t.Errorf("message = %q", message)
	}
}

func TestTimeoutIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, 30*time.Millisecond, testLogger())
	resource := NewResource[portfolio.Experience](client, "experiences")
	_, err := resource.List(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
	if got := UserMessage(err); got != "The request timed out. Please try again." {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestDeleteTargetsItemPath(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		io.WriteString(w, `{"message":"deleted"}`)
	}))

	resource := NewResource[portfolio.Organization](client, "organizations")
	if err := resource.Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/organizations/42" {
		t.Errorf("got %s %s, want DELETE /organizations/42", gotMethod, gotPath)
	}
}
