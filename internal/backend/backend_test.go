package backend

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandler(t *testing.T) {
	h := Handler("alpha")

	tests := []struct {
		path string
		want string
	}{
		{"/health", "ok\n"},
		{"/", "Hello world: alpha\n"},
		{"/some/page?x=1", "Hello world: alpha\n"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestServer_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	s := &Server{Project: "beta", ShutdownTimeout: time.Second}
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok\n" {
		t.Errorf("body = %q, want ok", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServer_RunValidates(t *testing.T) {
	if err := (&Server{Project: "bad name", Port: 9001}).Run(context.Background()); err == nil {
		t.Error("Run should reject an invalid project name")
	}
	if err := (&Server{Project: "alpha", Port: 0}).Run(context.Background()); err == nil {
		t.Error("Run should reject port 0")
	}
}

func TestServer_Addr(t *testing.T) {
	if got := (&Server{Port: 9001}).Addr(); got != "127.0.0.1:9001" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9001", got)
	}
}
