package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerrad567/doorman-bridge/internal/infrastructure/config"
	"github.com/nerrad567/doorman-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/doorman-bridge/internal/lock"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeProvider is a LockProvider backed by a fixed slice.
type fakeProvider struct {
	locks []*lock.Lock
}

func (f *fakeProvider) Locks() []*lock.Lock {
	return f.locks
}

func (f *fakeProvider) Lock(deviceID string) (*lock.Lock, bool) {
	for _, l := range f.locks {
		if l.DeviceID() == deviceID {
			return l, true
		}
	}
	return nil, false
}

// newTestServer builds a server over two locks and returns it with its
// router mounted on an httptest server.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	provider := &fakeProvider{
		locks: []*lock.Lock{
			lock.New("Front Door", "lock-1", lock.RawStateLocked, nil, nil),
			lock.New("Back Door", "lock-2", lock.RawStateUnlocked, nil, nil),
		},
	}

	srv, err := New(Deps{
		Config: config.APIConfig{},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testSecret, AccessTokenTTL: 15},
		},
		Logger:  logging.Default(),
		Locks:   provider,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ts := httptest.NewServer(srv.buildRouter())
	t.Cleanup(ts.Close)
	return srv, ts
}

// authedGet performs a GET with a freshly minted bearer token.
func authedGet(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()

	token, err := GenerateToken("test", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	return resp
}

func TestNewMissingDeps(t *testing.T) {
	if _, err := New(Deps{Locks: &fakeProvider{}}); err == nil {
		t.Error("New() without logger should fail")
	}
	if _, err := New(Deps{Logger: logging.Default()}); err == nil {
		t.Error("New() without lock provider should fail")
	}
}

func TestHealthNoAuth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding health body: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("health body = %v", body)
	}
}

func TestListLocksRequiresAuth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/locks")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", resp.StatusCode)
	}
}

func TestListLocksRejectsBadToken(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/locks", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", resp.StatusCode)
	}
}

func TestListLocks(t *testing.T) {
	_, ts := newTestServer(t)

	resp := authedGet(t, ts, "/api/v1/locks")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Locks []lockResponse `json:"locks"`
		Count int            `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding list body: %v", err)
	}

	if body.Count != 2 || len(body.Locks) != 2 {
		t.Fatalf("got %d locks, want 2", body.Count)
	}
	if body.Locks[0].DeviceID != "lock-1" || body.Locks[0].State != lock.StateLocked || !body.Locks[0].IsLocked {
		t.Errorf("locks[0] = %+v", body.Locks[0])
	}
	if body.Locks[1].State != lock.StateUnlocked || body.Locks[1].IsLocked {
		t.Errorf("locks[1] = %+v", body.Locks[1])
	}
}

func TestGetLock(t *testing.T) {
	_, ts := newTestServer(t)

	resp := authedGet(t, ts, "/api/v1/locks/lock-1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}

	var body lockResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding lock body: %v", err)
	}
	if body.DeviceID != "lock-1" || body.Name != "Front Door" || body.RawState != lock.RawStateLocked {
		t.Errorf("lock body = %+v", body)
	}
}

func TestGetLockNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp := authedGet(t, ts, "/api/v1/locks/lock-99")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown lock status = %d, want 404", resp.StatusCode)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("dashboard", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "dashboard" {
		t.Errorf("subject = %q, want dashboard", claims.Subject)
	}

	if _, err := ParseToken(token, "wrong-secret-wrong-secret-wrong!"); err == nil {
		t.Error("ParseToken() with wrong secret should fail")
	}
}
