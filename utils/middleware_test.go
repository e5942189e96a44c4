package utils

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func TestCacheRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name      string
		cacheTime int
		want      string
	}{
		{"no cache", CacheNoCache, "no-cache"},
		{"max age", 60, "private, max-age=60"},
		{"custom", CacheCustom, "handler"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use((&CacheRouter{CacheTime: tt.cacheTime}).Handler())
			router.GET("/", func(c *gin.Context) {
				if c.Writer.Header().Get("cache-control") == "" {
					c.Header("cache-control", "handler")
				}
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if got := w.Header().Get("cache-control"); got != tt.want {
				t.Errorf("cache-control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorLogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := bytes.Buffer{}
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	router := gin.New()
	router.Use(ErrorLogMiddleware)
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	router.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "broken") })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if buf.Len() != 0 {
		t.Errorf("2xx response was logged: %s", buf.String())
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	if !strings.Contains(buf.String(), "Status 400") || !strings.Contains(buf.String(), "broken") {
		t.Errorf("error response not logged, got %q", buf.String())
	}
	if w.Body.String() != "broken" {
		t.Errorf("body = %q, want passthrough", w.Body.String())
	}
}

func TestErrorLogMiddlewareGzip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := bytes.Buffer{}
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	router := gin.New()
	router.Use(ErrorLogMiddleware, gzip.Gzip(gzip.DefaultCompression))
	router.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "broken") })

	req := httptest.NewRequest(http.MethodGet, "/bad", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("response not compressed, headers %v", w.Header())
	}
	if !strings.Contains(buf.String(), "Status 400") || !strings.Contains(buf.String(), "<gzip encoded>") {
		t.Errorf("compressed error response logged as %q", buf.String())
	}
}
