package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateLimitRouter(rps float64, burst int, keyFn gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(keyFn)
	router.Use(RateLimit(rps, burst))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func fixedKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("api_key", key)
		c.Next()
	}
}

func TestRateLimit_AllowsBurstTraffic(t *testing.T) {
	router := rateLimitRouter(10, 5, fixedKey("test-key"))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimit_RejectsExcessiveTraffic(t *testing.T) {
	router := rateLimitRouter(1, 2, fixedKey("test-key"))

	// Exhaust the burst
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimit_PerKeyIsolation(t *testing.T) {
	router := rateLimitRouter(1, 1, func(c *gin.Context) {
		c.Set("api_key", c.GetHeader("X-API-Key"))
		c.Next()
	})

	// Key A uses its burst
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "key-a")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("key-a first request: expected 200, got %d", w.Code)
	}

	// Key A is now rate limited
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "key-a")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("key-a second request: expected 429, got %d", w.Code)
	}

	// Key B has its own bucket
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "key-b")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("key-b first request: expected 200, got %d", w.Code)
	}
}

func TestRateLimit_NoKeyPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, 1))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 without an api_key in context, got %d", w.Code)
	}
}
