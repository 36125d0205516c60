package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/crucial707/blogspace/internal/models"
)

type sample struct {
	Title     string `json:"title" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Image     string `json:"featuredImage" validate:"omitempty,http_url"`
	Subdomain string `json:"subdomain" validate:"omitempty,subdomain"`
}

func TestStruct_OK(t *testing.T) {
	err := Struct(sample{Title: "t", Email: "a@b.co", Password: "secret", Image: "https://x.test/a.png", Subdomain: "alice-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_Fields(t *testing.T) {
	err := Struct(sample{Title: "   ", Email: "nope", Password: "123", Image: "ftp://x", Subdomain: "Bad Name"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, models.ErrValidation) {
		t.Fatal("ValidationError should match ErrValidation")
	}
	want := map[string]string{
		"title":         "required",
		"email":         "must be a valid email",
		"password":      "must be at least 6 characters",
		"featuredImage": "must be an http or https URL",
		"subdomain":     "may only contain lowercase letters, numbers, and hyphens",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Errorf("field %s: got %q, want %q", field, ve.Fields[field], msg)
		}
	}
}

type secret struct {
	Password  string `json:"password" validate:"maxbytes=72"`
	Subdomain string `json:"subdomain" validate:"unreserved"`
}

func TestStruct_MaxBytes(t *testing.T) {
	if err := Struct(secret{Password: strings.Repeat("a", 72), Subdomain: "x"}); err != nil {
		t.Fatalf("72 ascii bytes: %v", err)
	}
	err := Struct(secret{Password: strings.Repeat("é", 40), Subdomain: "x"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["password"] != "must be at most 72 bytes" {
		t.Errorf("password: got %q", ve.Fields["password"])
	}
}

func TestStruct_Unreserved(t *testing.T) {
	err := Struct(secret{Subdomain: "me"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) || ve.Fields["subdomain"] != "is reserved" {
		t.Fatalf("got %v", err)
	}
}
