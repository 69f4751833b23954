package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	var gotUA, gotReqID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReqID = r.Header.Get("X-Client-Request-Id")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	c, err := New("", 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	body, info, err := c.Get(context.Background(), server.URL, "test (query) X")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if string(body) != `{"ok": true}` {
		t.Errorf("body = %q", body)
	}
	if info.Status != 200 {
		t.Errorf("status = %d", info.Status)
	}
	if info.ContentType != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", info.ContentType)
	}
	if gotUA == "" {
		t.Error("expected User-Agent header")
	}
	if gotReqID == "" || gotReqID != info.RequestID {
		t.Errorf("request id header %q != info %q", gotReqID, info.RequestID)
	}
}

func TestWithUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	c, err := New("", 0, WithUserAgent("custom-agent/1.0"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, _, err := c.Get(context.Background(), server.URL, ""); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotUA != "custom-agent/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestGetErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title": "Not found."}`))
	}))
	defer server.Close()

	c, err := New("", 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	body, info, err := c.Get(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("404 must not be a transport error, got %v", err)
	}
	if info.Status != 404 {
		t.Errorf("status = %d", info.Status)
	}
	if len(body) == 0 {
		t.Error("expected error body passed through")
	}
}

func TestGetNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c, err := New("", time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, _, err = c.Get(context.Background(), server.URL, "")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestGetDoesNotRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := New("", 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, info, err := c.Get(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("5xx must not be a transport error, got %v", err)
	}
	if info.Status != 500 {
		t.Errorf("status = %d", info.Status)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 request, got %d", calls)
	}
}

func TestNewInvalidProxy(t *testing.T) {
	if _, err := New("://bad", 0); err == nil {
		t.Fatal("expected error for invalid proxy")
	}
}

func TestInfoHTML(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html; charset=utf-8", true},
		{"text/html", true},
		{"application/json; charset=utf-8", false},
		{"", false},
	}
	for _, tt := range tests {
		info := Info{ContentType: tt.contentType}
		if got := info.HTML(); got != tt.want {
			t.Errorf("HTML() with %q = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
