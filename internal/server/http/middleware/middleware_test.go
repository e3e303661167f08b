package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/ratelimit"
	testhelpers "github.com/codecay7/BazzarNet-DIST-sub001/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(production bool) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(production, zap.NewNop()), Recovery(zap.NewNop()))
	router.NoRoute(NotFound)
	return router
}

func decodeError(t *testing.T, body *bytes.Buffer) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", body.String(), err)
	}
	return resp
}

func TestAuthRequired(t *testing.T) {
	router := newRouter(false)
	router.Use(AuthRequired(testhelpers.TokenParserStub{}))
	router.GET("/", func(c *gin.Context) {})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
	if msg := decodeError(t, resp.Body).Message; msg != "Not authorized, no token" {
		t.Fatalf("unexpected message %q", msg)
	}

	router = newRouter(false)
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = newRouter(false)
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var stored pkgAuth.Identity
	router = newRouter(false)
	router.Use(AuthRequired(testhelpers.TokenParserStub{Identity: pkgAuth.Identity{UserID: "u1", Role: model.RoleVendor}}))
	router.GET("/", func(c *gin.Context) {
		stored, _ = CurrentIdentity(c)
		c.Status(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored.UserID != "u1" || stored.Role != model.RoleVendor {
		t.Fatalf("unexpected identity %+v", stored)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role model.Role
		want int
	}{
		{model.RoleCustomer, http.StatusForbidden},
		{model.RoleVendor, http.StatusOK},
		{model.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		router := newRouter(false)
		router.Use(AuthRequired(testhelpers.TokenParserStub{Identity: pkgAuth.Identity{UserID: "u1", Role: tc.role}}))
		router.GET("/", RequireRole(model.RoleVendor, model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("role %s: expected %d, got %d", tc.role, tc.want, resp.Code)
		}
	}

	router := newRouter(false)
	router.GET("/", RequireRole(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token", true)
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" || !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("expected secure http-only cookie with token, got %+v", cookies)
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

func TestDecompressRequest(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("payload"))
	_ = gz.Close()

	router := newRouter(false)
	router.Use(DecompressRequest())
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader(buf.Bytes())))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader([]byte("plain"))))
	resp = httptest.NewRecorder()
	body = ""
	router.ServeHTTP(resp, req)
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed gzip, got %d", resp.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := resp.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated request id, got %q", generated)
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected request to be logged, got %d entries", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != generated {
		t.Fatalf("expected request id in log, got %v", got)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get(RequestIDHeader); got != incoming {
		t.Fatalf("expected incoming request id to be kept, got %q", got)
	}
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		handler gin.HandlerFunc
		status  int
		message string
		errors  int
	}{
		{"not found", func(c *gin.Context) { Fail(c, domainErrors.ErrNotFound) }, http.StatusNotFound, "Resource not found", 0},
		{"malformed id", func(c *gin.Context) {
			Fail(c, errors.Join(errors.New("cast"), domainErrors.ErrMalformedID))
		}, http.StatusNotFound, "Resource not found", 0},
		{"validation", func(c *gin.Context) {
			Fail(c, domainErrors.NewValidationError(map[string]string{"otp": "OTP must be exactly 6 digits", "status": "Invalid order status"}))
		}, http.StatusBadRequest, "Validation failed", 2},
		{"status error", func(c *gin.Context) {
			Fail(c, domainErrors.WithStatus(http.StatusConflict, errors.New("taken")))
		}, http.StatusConflict, "taken", 0},
		{"domain error", func(c *gin.Context) { Fail(c, domainErrors.ErrInvalidOTP) }, http.StatusBadRequest, "Invalid OTP", 0},
		{"status already set", func(c *gin.Context) {
			c.Status(http.StatusPaymentRequired)
			Fail(c, errors.New("pay first"))
		}, http.StatusPaymentRequired, "pay first", 0},
		{"unknown error", func(c *gin.Context) { Fail(c, errors.New("boom")) }, http.StatusInternalServerError, "boom", 0},
		{"panic", func(c *gin.Context) { panic("kaboom") }, http.StatusInternalServerError, "kaboom", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(false)
			router.GET("/", tc.handler)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			body := decodeError(t, resp.Body)
			if body.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body.Message)
			}
			if len(body.Errors) != tc.errors {
				t.Fatalf("expected %d field errors, got %+v", tc.errors, body.Errors)
			}
			if body.Stack == nil || *body.Stack == "" {
				t.Fatal("expected stack outside production")
			}
		})
	}
}

func TestErrorHandlerProductionHidesStack(t *testing.T) {
	router := newRouter(true)
	router.GET("/", func(c *gin.Context) { Fail(c, errors.New("boom")) })
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(resp.Body.String(), `"stack":null`) {
		t.Fatalf("expected null stack, got %s", resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), `"errors"`) {
		t.Fatalf("errors must be omitted for non-validation failures: %s", resp.Body.String())
	}
}

func TestErrorHandlerLeavesWrittenResponses(t *testing.T) {
	router := newRouter(false)
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusTeapot, "short and stout")
		_ = c.Error(errors.New("late"))
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusTeapot || resp.Body.String() != "short and stout" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	router := newRouter(false)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/missing?x=1", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if msg := decodeError(t, resp.Body).Message; msg != "Not Found - /api/missing?x=1" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRateLimit(t *testing.T) {
	m := metrics.New()
	limiter := ratelimit.NewLimiter("auth", 2, 15*time.Minute, ratelimit.AuthMessage, ratelimit.NewMemoryStore(), zap.NewNop())

	router := newRouter(false)
	router.POST("/login", RateLimit(limiter, m), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if first.Header().Get("RateLimit-Limit") != "2" || first.Header().Get("RateLimit-Remaining") != "1" {
		t.Fatalf("unexpected headers %v", first.Header())
	}
	if first.Header().Get("RateLimit-Reset") == "" {
		t.Fatal("expected reset header")
	}
	if first.Header().Get("X-RateLimit-Limit") != "" || first.Header().Get("Retry-After") != "" {
		t.Fatalf("unexpected legacy or retry headers %v", first.Header())
	}

	send()
	blocked := send()
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", blocked.Code)
	}
	if blocked.Body.String() != ratelimit.AuthMessage {
		t.Fatalf("unexpected body %q", blocked.Body.String())
	}
	if blocked.Header().Get("RateLimit-Remaining") != "0" || blocked.Header().Get("Retry-After") == "" {
		t.Fatalf("unexpected headers %v", blocked.Header())
	}
	if got := testutil.ToFloat64(m.RateLimited.WithLabelValues("auth")); got != 1 {
		t.Fatalf("expected one rate limited request recorded, got %v", got)
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	router := newRouter(false)
	router.Use(Metrics(m))
	router.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/orders/:id", "200")); got != 1 {
		t.Fatalf("expected request counted by route, got %v", got)
	}
}
