package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"posts/config"
	"posts/db"
	"posts/models"
	"strings"
	"testing"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	defer func(dsn, file string) { config.MYSQL_DSN, config.SQLITE_FILE = dsn, file }(config.MYSQL_DSN, config.SQLITE_FILE)
	config.MYSQL_DSN = ""
	config.SQLITE_FILE = "file:" + t.Name() + "?mode=memory&cache=shared"
	db.Init()
	models.Init()
	t.Cleanup(func() {
		if sqlDB, err := db.Instance.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return setupRouter()
}

func request(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	router := setup(t)

	w := request(router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("/health = %d", w.Code)
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers missing: %v", w.Header())
	}
	if w.Header().Get("cache-control") != "no-cache" {
		t.Errorf("cache-control = %q", w.Header().Get("cache-control"))
	}

	w = request(router, http.MethodPost, "/api/posts", `{"title":"Hi","content":"World"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, %s", w.Code, w.Body.String())
	}
	post := models.Post{}
	_ = json.Unmarshal(w.Body.Bytes(), &post)

	w = request(router, http.MethodPut, "/api/posts/"+post.ID, `{"title":"Hi2","content":"World"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"title":"Hi2"`) {
		t.Errorf("update = %d, %s", w.Code, w.Body.String())
	}

	w = request(router, http.MethodDelete, "/api/posts/"+post.ID, "")
	if w.Code != http.StatusOK {
		t.Errorf("delete = %d", w.Code)
	}
	w = request(router, http.MethodGet, "/api/posts", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("list = %d, %s", w.Code, w.Body.String())
	}

	w = request(router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `route="/api/posts/:id"`) {
		t.Errorf("/metrics = %d, missing route label", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := setup(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
