package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestRootBanner(t *testing.T) {
	srv := New(Config{Port: 0})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "chatrelay running") {
		t.Errorf("expected running banner, got %q", w.Body.String())
	}
}

func TestRootInstallLink(t *testing.T) {
	srv := New(Config{Port: 0, InstallLink: "https://slack.com/oauth/v2/authorize?client_id=x"})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "Add to Slack") {
		t.Errorf("expected install link, got %q", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "https://slack.com/oauth/v2/authorize") {
		t.Errorf("expected consent URL in link, got %q", w.Body.String())
	}
}

func TestShutdownStopsServer(t *testing.T) {
	srv := New(Config{Port: 0})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	// Shutdown drains the listener whether or not Start has begun serving;
	// a pre-empted Start returns ErrServerClosed immediately.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("expected ErrServerClosed after shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after Shutdown")
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
