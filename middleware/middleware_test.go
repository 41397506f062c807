package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	r := gin.New()
	if err := r.SetTrustedProxies([]string{"192.0.2.0/24"}); err != nil {
		t.Fatalf("trusted proxies: %v", err)
	}
	r.Use(RequestLogger(zap.New(core)))
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		req.Header.Set(requestIDHeader, fmt.Sprintf("req-%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %d", codes[2])
	}

	limited := logs.FilterMessage("Rate limit exceeded").All()
	if len(limited) != 1 {
		t.Fatalf("expected one rate limit log line, got %d", len(limited))
	}
	if fields := limited[0].ContextMap(); fields["requestID"] != "req-2" || fields["ip"] != "10.0.0.1" {
		t.Fatalf("expected request-scoped fields on rate limit log, got %v", fields)
	}

	// a different client has its own budget
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Real-IP", "10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", w.Code)
	}
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	r := gin.New()
	if err := r.SetTrustedProxies([]string{"10.1.0.0/16"}); err != nil {
		t.Fatalf("trusted proxies: %v", err)
	}
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, clientKey(c)) })

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded by trusted proxy", headers: map[string]string{"X-Forwarded-For": "1.1.1.1"}, remote: "10.1.2.3:1", want: "1.1.1.1"},
		{name: "real ip from trusted proxy", headers: map[string]string{"X-Real-IP": "3.3.3.3"}, remote: "10.1.2.3:1", want: "3.3.3.3"},
		{name: "spoofed header from untrusted peer", headers: map[string]string{"X-Forwarded-For": "1.1.1.1"}, remote: "9.9.9.9:1", want: "9.9.9.9"},
		{name: "remote addr", remote: "4.4.4.4:5555", want: "4.4.4.4"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if got := w.Body.String(); got != tt.want {
				t.Fatalf("clientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))

	var scoped bool
	r.GET("/items/:id", func(c *gin.Context) {
		_, scoped = c.Get("logger")
		c.Status(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set(requestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !scoped {
		t.Fatalf("expected request logger in gin context")
	}
	if got := w.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["requestID"] != "req-1" || fields["path"] != "/items/:id" || fields["status"] != int64(http.StatusAccepted) {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}
