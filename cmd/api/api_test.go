package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/blogspace/internal/auth"
	"github.com/crucial707/blogspace/internal/config"
	"github.com/crucial707/blogspace/internal/middleware"
)

var (
	userCols = []string{"id", "username", "email", "password_hash", "created_at"}
	blogCols = []string{"id", "name", "subdomain", "owner_id", "description", "created_at", "updated_at", "username", "email"}
	postCols = []string{"id", "title", "content", "featured_image", "author_id", "blog_id", "status", "created_at", "updated_at", "username"}
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:         "test-secret-for-integration",
		JWTExpireHours:    1,
		BcryptCost:        4,
		AuthRatePerMinute: 600,
	}
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestAPI_RegisterThenCreatePost builds the full router with a sqlmock-backed
// DB, registers a user, then creates a post with the returned token.
func TestAPI_RegisterThenCreatePost(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "alice@example.com", "hash", now))
	mock.ExpectQuery(`INSERT INTO blogs`).
		WithArgs("alice's Blog", "alice", 1, "Welcome to alice's personal blog!").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(`WHERE b.owner_id`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(blogCols).AddRow(10, "alice's Blog", "alice", 1, "", now, now, "alice", "alice@example.com"))
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("Hello", "First post", "", 1, 10, "published").
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(100, "Hello", "First post", "", 1, 10, "published", now, now, "alice"))

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	// 1) Register
	resp := doJSON(t, "POST", srv.URL+"/api/auth/register", "",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "secret1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", resp.StatusCode)
	}
	var reg struct {
		Token string `json:"token"`
		Blog  struct {
			Subdomain string `json:"subdomain"`
		} `json:"blog"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil || reg.Token == "" {
		t.Fatalf("register response: %v", err)
	}
	if reg.Blog.Subdomain != "alice" {
		t.Errorf("subdomain: got %q", reg.Blog.Subdomain)
	}

	// 2) Create post with Bearer token
	resp = doJSON(t, "POST", srv.URL+"/api/posts", reg.Token,
		map[string]string{"title": "Hello", "content": "First post"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post status: got %d, want 201", resp.StatusCode)
	}
	var post struct {
		ID   int `json:"id"`
		Blog int `json:"blog"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.ID != 100 || post.Blog != 10 {
		t.Errorf("post: %+v", post)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_UpdateOthersPost checks that a valid token for another user gets
// 403 and the post is never written.
func TestAPI_UpdateOthersPost(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`WHERE p.id`).WithArgs(100).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(100, "Hello", "First post", "", 1, 10, "published", now, now, "alice"))

	cfg := testConfig()
	srv := httptest.NewServer(newRouter(db, cfg))
	defer srv.Close()

	bobToken, _, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Hour).Issue(2)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	resp := doJSON(t, "PUT", srv.URL+"/api/posts/100", bobToken, map[string]string{"title": "Mine now"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_ProtectedRoutesRequireToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cfg := testConfig()
	srv := httptest.NewServer(newRouter(db, cfg))
	defer srv.Close()

	expired, _, _ := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(1)

	routes := []struct{ method, path string }{
		{"GET", "/api/posts"},
		{"POST", "/api/posts"},
		{"PUT", "/api/posts/1"},
		{"DELETE", "/api/posts/1"},
		{"GET", "/api/blogs/me"},
		{"PUT", "/api/blogs/1"},
		{"PUT", "/api/auth/password"},
		{"DELETE", "/api/auth/account"},
	}
	for _, rt := range routes {
		for _, token := range []string{"", "garbage", expired} {
			resp := doJSON(t, rt.method, srv.URL+rt.path, token, nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("%s %s token=%.8q: got %d, want 401", rt.method, rt.path, token, resp.StatusCode)
			}
		}
	}
}

func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	for _, path := range []string{"/api/health", "/api/test-db", "/metrics"} {
		resp := doJSON(t, "GET", srv.URL+path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status: got %d, want 200", path, resp.StatusCode)
		}
	}

	resp := doJSON(t, "GET", srv.URL+"/api/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route: got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("security headers missing")
	}
}

func TestAPI_LoginRateLimited(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 5; i++ {
		mock.ExpectQuery(`FROM users\s+WHERE email`).WillReturnError(sql.ErrNoRows)
	}

	srv := httptest.NewServer(buildRouter(db, testConfig(), middleware.PerMinute(2)))
	defer srv.Close()

	var last int
	for i := 0; i < 3; i++ {
		resp := doJSON(t, "POST", srv.URL+"/api/auth/login", "",
			map[string]string{"email": "x@example.com", "password": "whatever"})
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("third login: got %d, want 429", last)
	}
}

func TestAPI_LoginRateLimit_ForwardedFor(t *testing.T) {
	login := func(h http.Handler, xff string) int {
		b, _ := json.Marshal(map[string]string{"email": "x@example.com", "password": "whatever"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(b))
		req.RemoteAddr = "10.0.0.1:4321"
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	tests := []struct {
		name       string
		trustProxy bool
		want       int
	}{
		{"headers ignored by default", false, http.StatusTooManyRequests},
		{"headers honoured behind proxy", true, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()
			mock.MatchExpectationsInOrder(false)
			for i := 0; i < 3; i++ {
				mock.ExpectQuery(`FROM users\s+WHERE email`).WillReturnError(sql.ErrNoRows)
			}

			cfg := testConfig()
			cfg.TrustProxyHeaders = tc.trustProxy
			h := buildRouter(db, cfg, middleware.PerMinute(2))

			var last int
			for i := 0; i < 3; i++ {
				last = login(h, fmt.Sprintf("203.0.113.%d", i))
			}
			if last != tc.want {
				t.Errorf("third login: got %d, want %d", last, tc.want)
			}
		})
	}
}

func TestAPI_BodyTooLarge(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	big := strings.Repeat("a", middleware.DefaultMaxBodyBytes+1)
	resp := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{"username": big})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", resp.StatusCode)
	}
}
