package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/blogspace/internal/models"
	"github.com/crucial707/blogspace/internal/validate"
)

// BlogService reads and updates blogs. Blogs are only created by
// registration and only deleted by account deletion.
type BlogService struct {
	blogs BlogStore
	audit AuditLogger
}

// NewBlogService creates a new BlogService. audit may be nil.
func NewBlogService(blogs BlogStore, audit AuditLogger) *BlogService {
	return &BlogService{blogs: blogs, audit: audit}
}

// BlogUpdate holds the optional fields of a blog update; nil keeps the
// current value.
type BlogUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Subdomain   *string `json:"subdomain"`
}

type blogFields struct {
	Name        string `json:"name" validate:"notblank,max=50"`
	Description string `json:"description" validate:"max=200"`
	Subdomain   string `json:"subdomain" validate:"required,max=63,subdomain,unreserved"`
}

// Mine returns the blog owned by userID, including the owner's email.
func (s *BlogService) Mine(ctx context.Context, userID int) (*models.Blog, error) {
	blog, err := s.blogs.GetByOwner(ctx, userID)
	if err != nil {
		return nil, blogError(err)
	}
	return blog, nil
}

// BySubdomain returns a blog for public display. The owner's email is not exposed.
func (s *BlogService) BySubdomain(ctx context.Context, sub string) (*models.Blog, error) {
	blog, err := s.blogs.GetBySubdomain(ctx, strings.ToLower(strings.TrimSpace(sub)))
	if err != nil {
		return nil, blogError(err)
	}
	blog.Owner.Email = ""
	return blog, nil
}

// Update changes name, description or subdomain of a blog owned by actorID.
// A missing blog is models.ErrNotFound, someone else's is models.ErrForbidden.
func (s *BlogService) Update(ctx context.Context, blogID, actorID int, in BlogUpdate) (*models.Blog, error) {
	existing, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, blogError(err)
	}
	if !CanModifyBlog(actorID, existing) {
		return nil, models.ErrForbidden
	}

	fields := blogFields{
		Name:        existing.Name,
		Description: existing.Description,
		Subdomain:   existing.Subdomain,
	}
	if in.Name != nil {
		fields.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields.Description = strings.TrimSpace(*in.Description)
	}
	if in.Subdomain != nil {
		fields.Subdomain = strings.ToLower(strings.TrimSpace(*in.Subdomain))
	}
	if err := validate.Struct(fields); err != nil {
		return nil, err
	}

	updated, err := s.blogs.Update(ctx, existing.ID, fields.Name, fields.Subdomain, fields.Description)
	if err != nil {
		if errors.Is(err, models.ErrSubdomainTaken) {
			return nil, fmt.Errorf("subdomain %q is already taken: %w", fields.Subdomain, models.ErrConflict)
		}
		return nil, blogError(err)
	}
	updated.Owner = existing.Owner

	recordAudit(ctx, s.audit, actorID, models.AuditBlogUpdate, "blog", updated.ID, "")
	return updated, nil
}

func blogError(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("blog %w", models.ErrNotFound)
	}
	return err
}
