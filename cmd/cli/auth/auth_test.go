package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucial707/blogspace/internal/models"
)

func TestLogin_SavesToken(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user":    models.User{ID: 1, Username: "alice", Email: "alice@example.com"},
			"blog":    models.BlogSummary{ID: 2, Name: "alice's Blog", Subdomain: "alice"},
			"token":   "jwt-token",
		})
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("BLOGSPACE_TOKEN_FILE", tokenFile)
	t.Setenv("BLOGSPACE_API_URL", srv.URL)

	cmd := loginCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("secret1\n"))
	cmd.SetArgs([]string{"--email", "alice@example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	if got["email"] != "alice@example.com" || got["password"] != "secret1" {
		t.Errorf("request body: %v", got)
	}
	data, err := os.ReadFile(tokenFile)
	if err != nil || string(data) != "jwt-token" {
		t.Fatalf("token file: %q %v", data, err)
	}
	if !strings.Contains(out.String(), "alice's Blog (alice)") {
		t.Errorf("output: %s", out.String())
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid email or password"}`))
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("BLOGSPACE_TOKEN_FILE", tokenFile)
	t.Setenv("BLOGSPACE_API_URL", srv.URL)

	cmd := loginCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--email", "a@b.c", "--password", "nope"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid email or password") {
		t.Fatalf("got %v", err)
	}
	if _, err := os.Stat(tokenFile); !os.IsNotExist(err) {
		t.Error("token stored after failed login")
	}
}

func TestLogout(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("BLOGSPACE_TOKEN_FILE", tokenFile)
	os.WriteFile(tokenFile, []byte("tok"), 0o600)

	for _, want := range []string{"Logged out successfully.", "No user logged in."} {
		cmd := logoutCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("logout: %v", err)
		}
		if !strings.Contains(out.String(), want) {
			t.Errorf("output: got %q, want %q", out.String(), want)
		}
	}
}

func TestDeleteAccount_RequiresConfirmation(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("BLOGSPACE_TOKEN_FILE", tokenFile)
	t.Setenv("BLOGSPACE_API_URL", srv.URL)
	os.WriteFile(tokenFile, []byte("tok"), 0o600)

	cmd := deleteAccountCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("no\n"))
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected abort")
	}
	if called {
		t.Error("API called without confirmation")
	}
}

func TestActivity_RendersTable(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]models.AuditEntry{
			{ID: 2, UserID: 1, Action: "blog_update", ResourceType: "blog", ResourceID: 5},
		})
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("jwt-token"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOGSPACE_TOKEN_FILE", tokenFile)
	t.Setenv("BLOGSPACE_API_URL", srv.URL)

	cmd := activityCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--limit", "5"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("activity: %v", err)
	}
	if gotAuth != "Bearer jwt-token" {
		t.Errorf("Authorization: %q", gotAuth)
	}
	if gotQuery != "limit=5&offset=0" {
		t.Errorf("query: %q", gotQuery)
	}
	if !strings.Contains(out.String(), "blog_update") || !strings.Contains(out.String(), "blog #5") {
		t.Errorf("output: %s", out.String())
	}
}
