package infra

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestHTTPServerUsesConfig(t *testing.T) {
	cfg := &Config{Port: "0", HTTPReadTimeout: 3 * time.Second, HTTPWriteTimeout: 4 * time.Second, HTTPIdleTimeout: 5 * time.Second}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr() != ":0" {
		t.Fatalf("Addr = %q", srv.Addr())
	}
	if srv.server.WriteTimeout != 4*time.Second || srv.server.IdleTimeout != 5*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv.server)
	}
}

func TestHTTPServerStartReturnsNilAfterShutdown(t *testing.T) {
	srv := NewHTTPServer(&Config{Port: "0"}, http.NotFoundHandler())
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return")
	}
}
