package utils

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestServiceAddress(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://authz.local", "authz.local:80"},
		{"https://authz.local", "authz.local:443"},
		{"http://authz.local:9011/graphql", "authz.local:9011"},
		{"postgres://db", "db:5432"},
		{"ftp://files", "files:80"},
	}
	for _, tt := range tests {
		got, err := ServiceAddress(tt.url)
		if err != nil {
			t.Errorf("ServiceAddress(%q): %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ServiceAddress(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}

	if _, err := ServiceAddress("not a url"); err == nil {
		t.Error("Expected an error for a URL without a host")
	}
}

func TestPingService(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	if err := PingService(context.Background(), "http://"+addr, time.Second); err != nil {
		t.Errorf("Expected ping to succeed: %v", err)
	}

	listener.Close()
	if err := PingService(context.Background(), "http://"+addr, 200*time.Millisecond); err == nil {
		t.Error("Expected ping to fail after the listener closed")
	}
}
