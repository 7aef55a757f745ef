package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/quickmart/internal/domain/model"
	pkgAuth "github.com/polkiloo/quickmart/internal/pkg/auth"
	testhelpers "github.com/polkiloo/quickmart/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{}))
	router.GET("/", func(c *gin.Context) {})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	want := model.Principal{UserID: 42, Role: model.RoleSupplier}
	var stored model.Principal
	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Principal: want}))
	router.GET("/", func(c *gin.Context) {
		if v, ok := c.Get(PrincipalContextKey); ok {
			stored = v.(model.Principal)
		}
		c.Status(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored != want {
		t.Fatalf("expected principal %+v, got %+v", want, stored)
	}
}

func TestRequireRole(t *testing.T) {
	newRouter := func(principal *model.Principal) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if principal != nil {
				c.Set(PrincipalContextKey, *principal)
			}
		})
		router.Use(RequireRole(model.RoleSupplier, model.RoleAdmin))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	cases := []struct {
		name      string
		principal *model.Principal
		code      int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer", &model.Principal{UserID: 1, Role: model.RoleCustomer}, http.StatusForbidden},
		{"supplier", &model.Principal{UserID: 2, Role: model.RoleSupplier}, http.StatusOK},
		{"admin", &model.Principal{UserID: 3, Role: model.RoleAdmin}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			newRouter(tc.principal).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
			if resp.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, resp.Code)
			}
		})
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Name != authCookieName || cookies[0].Value != "token" {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = c.GetString(RequestIDHeader)
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || resp.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("expected generated request id, got %q / %q", seen, resp.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if seen != "abc-123" || resp.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", seen)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(io.ErrUnexpectedEOF)
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/ok", "/missing", "/fail"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three log lines, got %d: %s", len(lines), buf.String())
	}
	for i, level := range []string{`"level":"INFO"`, `"level":"WARN"`, `"level":"ERROR"`} {
		if !strings.Contains(lines[i], level) || !strings.Contains(lines[i], `"request_id"`) {
			t.Fatalf("line %d: expected %s with request id, got %s", i, level, lines[i])
		}
	}
	if !strings.Contains(lines[2], "unexpected EOF") {
		t.Fatalf("expected handler error to be logged, got %s", lines[2])
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id == "7" {
			c.Set(PrincipalContextKey, model.Principal{UserID: 7, Role: model.RoleCustomer})
		}
	})
	router.Use(limiter.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp.Code
	}

	if do("") != http.StatusOK || do("") != http.StatusOK {
		t.Fatal("expected burst to be allowed")
	}
	if code := do(""); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if code := do("7"); code != http.StatusOK {
		t.Fatalf("expected authenticated caller to have its own bucket, got %d", code)
	}

	now = now.Add(time.Second)
	if code := do(""); code != http.StatusOK {
		t.Fatalf("expected token refill after one second, got %d", code)
	}

	now = now.Add(visitorTTL + time.Second)
	do("")
	limiter.mu.Lock()
	_, kept := limiter.visitors["user:7"]
	limiter.mu.Unlock()
	if kept {
		t.Fatal("expected idle visitor to be swept")
	}
}
