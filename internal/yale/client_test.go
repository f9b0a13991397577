package yale

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogin_Success(t *testing.T) {
	var gotAuth, gotGrant, gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/o/token/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		gotGrant = r.PostForm.Get("grant_type")
		gotUser = r.PostForm.Get("username")

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	session, err := client.Login(context.Background(), Credentials{
		Username:       "user@example.com",
		Password:       "secret",
		BootstrapToken: "Ym9vdHN0cmFw",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if gotAuth != "Basic Ym9vdHN0cmFw" {
		t.Errorf("Authorization header = %q, want Basic bootstrap token", gotAuth)
	}
	if gotGrant != "password" {
		t.Errorf("grant_type = %q, want %q", gotGrant, "password")
	}
	if gotUser != "user@example.com" {
		t.Errorf("username = %q, want %q", gotUser, "user@example.com")
	}

	if session.AccessToken != "tok-1" {
		t.Errorf("AccessToken = %q, want %q", session.AccessToken, "tok-1")
	}
	if session.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", session.ExpiresIn)
	}
	if session.LoggedInAt.IsZero() {
		t.Error("LoggedInAt should be stamped with the current time")
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				//nolint:errcheck
				w.Write([]byte("<html>gateway timeout</html>"))
			},
		},
		{
			name: "missing access token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				//nolint:errcheck
				w.Write([]byte(`{"error":"invalid_grant"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, 5*time.Second)
			_, err := client.Login(context.Background(), Credentials{Username: "u", Password: "p", BootstrapToken: "t"})
			if !errors.Is(err, ErrAuthFailed) {
				t.Errorf("Login() error = %v, want ErrAuthFailed", err)
			}
		})
	}
}

func TestFetchStatus_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/panel/cycle/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		//nolint:errcheck
		w.Write([]byte(`{
			"message": "OK!",
			"data": {
				"device_status": [
					{"device_id": "dev-1", "name": "Front Door", "status_open": ["device_status.lock"]},
					{"device_id": "dev-2", "name": "Back Door", "status_open": ["device_status.unlock"]}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	devices, err := client.FetchStatus(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("FetchStatus() error = %v", err)
	}

	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].Name != "Front Door" || devices[0].RawState() != "device_status.lock" {
		t.Errorf("device[0] = %+v, want Front Door locked", devices[0])
	}
	if devices[1].DeviceID != "dev-2" {
		t.Errorf("device[1].DeviceID = %q, want %q", devices[1].DeviceID, "dev-2")
	}
}

func TestFetchStatus_LogicalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		//nolint:errcheck
		w.Write([]byte(`{"message":"Invalid token!","data":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FetchStatus(context.Background(), "tok-1")
	if !errors.Is(err, ErrStatusNotOK) {
		t.Errorf("FetchStatus() error = %v, want ErrStatusNotOK", err)
	}
}

func TestFetchStatus_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FetchStatus(context.Background(), "tok-1")
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("FetchStatus() error = %v, want ErrRequestFailed", err)
	}
}

func TestFetchHistory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/event/report/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page_num") != "1" || r.URL.Query().Get("set_utc") != "1" {
			t.Errorf("query = %q, want page_num=1&set_utc=1", r.URL.RawQuery)
		}
		//nolint:errcheck
		w.Write([]byte(`{
			"message": "OK!",
			"data": [
				{"type": "device_type.door_lock", "report_id": 101, "name": "Front Door", "event_type": "1801"},
				{"type": "device_type.door_lock", "report_id": 102, "name": "Front Door", "event_type": "1807"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	events, err := client.FetchHistory(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Feed order must be preserved, not re-sorted
	if events[0].ReportID != 101 || events[1].ReportID != 102 {
		t.Errorf("events out of feed order: %+v", events)
	}
	if events[0].EventType != "1801" {
		t.Errorf("events[0].EventType = %q, want %q", events[0].EventType, "1801")
	}
}

func TestFetchHistory_LogicalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		//nolint:errcheck
		w.Write([]byte(`{"message":"Session expired","data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FetchHistory(context.Background(), "tok-1")
	if !errors.Is(err, ErrStatusNotOK) {
		t.Errorf("FetchHistory() error = %v, want ErrStatusNotOK", err)
	}
}
