package docgen

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fetchbites/recipecard/config"
)

func shortenerFor(t *testing.T, handler http.HandlerFunc, domains []string) *Shortener {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.ShortLinks{
		Enabled:        true,
		Endpoint:       srv.URL,
		AllowedDomains: domains,
	}
	return NewShortener(cfg, srv.Client(), slog.New(slog.DiscardHandler))
}

func TestShortenSuccess(t *testing.T) {
	s := shortenerFor(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://instagram.com/p/abc" {
			t.Errorf("转发的 url = %q", got)
		}
		w.Write([]byte("https://is.gd/xyz"))
	}, nil)
	got := s.Shorten(context.Background(), "https://instagram.com/p/abc")
	if got != "https://is.gd/xyz" {
		t.Errorf("Shorten = %q", got)
	}
}

func TestShortenFailureKeepsOriginal(t *testing.T) {
	orig := "https://instagram.com/p/abc"
	s := shortenerFor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusBadGateway)
	}, nil)
	if got := s.Shorten(context.Background(), orig); got != orig {
		t.Errorf("服务失败应返回原链接, got %q", got)
	}
}

func TestShortenGarbageBodyKeepsOriginal(t *testing.T) {
	orig := "https://instagram.com/p/abc"
	s := shortenerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Error: something"))
	}, nil)
	if got := s.Shorten(context.Background(), orig); got != orig {
		t.Errorf("非 URL 响应应返回原链接, got %q", got)
	}
}

func TestShortenRespectsAllowList(t *testing.T) {
	called := false
	s := shortenerFor(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("https://is.gd/xyz"))
	}, []string{"instagram.com"})

	orig := "https://evil.example.com/p/abc"
	if got := s.Shorten(context.Background(), orig); got != orig {
		t.Errorf("不在允许名单的域名应原样返回, got %q", got)
	}
	if called {
		t.Errorf("不允许的域名不应触发请求")
	}

	// 子域名允许
	if got := s.Shorten(context.Background(), "https://www.instagram.com/p/abc"); got != "https://is.gd/xyz" {
		t.Errorf("允许名单应覆盖子域名, got %q", got)
	}
}

func TestShortenDisabled(t *testing.T) {
	s := NewShortener(config.ShortLinks{Enabled: false}, nil, slog.New(slog.DiscardHandler))
	orig := "https://instagram.com/p/abc"
	if got := s.Shorten(context.Background(), orig); got != orig {
		t.Errorf("关闭时应原样返回, got %q", got)
	}
}
