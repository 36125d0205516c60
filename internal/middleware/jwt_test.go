package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubVerifier map[string]int

func (s stubVerifier) Verify(token string) (int, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func TestJWTMiddleware(t *testing.T) {
	var gotID int
	h := JWTMiddleware(stubVerifier{"good": 42})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"no bearer prefix", "good", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotID = 0
			req := httptest.NewRequest("GET", "/api/posts", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.want)
			}
			if tc.want == http.StatusOK && gotID != 42 {
				t.Errorf("user id: got %d, want 42", gotID)
			}
			if tc.want == http.StatusUnauthorized && rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("content type: %q", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := GetUserID(req.Context()); ok {
		t.Error("expected no user id")
	}
	if _, ok := GetUserID(WithUserID(req.Context(), 0)); ok {
		t.Error("zero user id should not count")
	}
}
