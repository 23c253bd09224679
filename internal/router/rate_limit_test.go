package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestEvaluateWindow(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 2}
	now := time.Unix(1_700_000_000, 0)

	if ok, wait := evaluateWindow(2, now.Add(-10*time.Second), now, rule); !ok || wait != 0 {
		t.Fatalf("count at limit should pass, ok=%v wait=%d", ok, wait)
	}
	ok, wait := evaluateWindow(3, now.Add(-10*time.Second), now, rule)
	if ok || wait != 50 {
		t.Fatalf("over limit want wait 50 got ok=%v wait=%d", ok, wait)
	}
	ok, wait = evaluateWindow(3, now.Add(-59500*time.Millisecond), now, rule)
	if ok || wait != 1 {
		t.Fatalf("sub-second remainder rounds up to 1, got ok=%v wait=%d", ok, wait)
	}
	ok, wait = evaluateWindow(5, now.Add(-2*time.Minute), now, rule)
	if ok || wait != 1 {
		t.Fatalf("stale oldest still waits at least 1s, got ok=%v wait=%d", ok, wait)
	}
}

func TestReadJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":42}`))
	c.Request.RemoteAddr = "9.9.9.9:1"

	if key := KeyByIPAndJSONField("username")(c); key != "9.9.9.9" {
		t.Fatalf("non-string field should fall back to ip, got %s", key)
	}
}

func TestKeyByUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/user/orders", nil)
	c.Request.RemoteAddr = "5.6.7.8:1234"

	if key := KeyByUserID(c); key != "5.6.7.8" {
		t.Fatalf("anonymous key want ip got %s", key)
	}
	c.Set("user_id", uint(42))
	if key := KeyByUserID(c); key != "user:42" {
		t.Fatalf("user key want user:42 got %s", key)
	}
}
