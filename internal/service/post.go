package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/blogspace/internal/models"
	"github.com/crucial707/blogspace/internal/validate"
)

// PostService handles post CRUD. Every post lives in its author's blog.
type PostService struct {
	blogs BlogStore
	posts PostStore
	audit AuditLogger
}

// NewPostService creates a new PostService. audit may be nil.
func NewPostService(blogs BlogStore, posts PostStore, audit AuditLogger) *PostService {
	return &PostService{blogs: blogs, posts: posts, audit: audit}
}

// PostInput is the create payload.
type PostInput struct {
	Title         string `json:"title" validate:"notblank,max=200"`
	Content       string `json:"content" validate:"notblank"`
	FeaturedImage string `json:"featuredImage" validate:"omitempty,http_url"`
}

// PostUpdate holds the optional fields of a post update; nil keeps the
// current value.
type PostUpdate struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	FeaturedImage *string `json:"featuredImage"`
}

// List returns the actor's blog and its posts, newest first.
func (s *PostService) List(ctx context.Context, actorID int) (*models.BlogSummary, []models.Post, error) {
	blog, err := s.blogs.GetByOwner(ctx, actorID)
	if err != nil {
		return nil, nil, blogError(err)
	}
	posts, err := s.posts.ListByBlog(ctx, blog.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}
	summary := blog.Summary()
	return &summary, posts, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, postID int) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postError(err)
	}
	return post, nil
}

// Create publishes a post in the actor's blog. Nothing is stored when the
// title or content is blank.
func (s *PostService) Create(ctx context.Context, actorID int, in PostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByOwner(ctx, actorID)
	if err != nil {
		return nil, blogError(err)
	}

	post, err := s.posts.Create(ctx, actorID, blog.ID, in.Title, in.Content, in.FeaturedImage, models.PostStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update edits a post written by actorID.
func (s *PostService) Update(ctx context.Context, postID, actorID int, in PostUpdate) (*models.Post, error) {
	existing, err := s.authorize(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	fields := PostInput{
		Title:         existing.Title,
		Content:       existing.Content,
		FeaturedImage: existing.FeaturedImage,
	}
	if in.Title != nil {
		fields.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		fields.Content = *in.Content
	}
	if in.FeaturedImage != nil {
		fields.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}
	if err := validate.Struct(fields); err != nil {
		return nil, err
	}

	post, err := s.posts.Update(ctx, existing.ID, fields.Title, fields.Content, fields.FeaturedImage)
	if err != nil {
		return nil, postError(err)
	}
	return post, nil
}

// Delete removes a post written by actorID.
func (s *PostService) Delete(ctx context.Context, postID, actorID int) error {
	existing, err := s.authorize(ctx, postID, actorID)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, existing.ID); err != nil {
		return postError(err)
	}
	recordAudit(ctx, s.audit, actorID, models.AuditPostDelete, "post", existing.ID, existing.Title)
	return nil
}

// authorize loads the post and applies the ownership guard. Existence is
// checked first, so a missing post is 404 and someone else's is 403.
func (s *PostService) authorize(ctx context.Context, postID, actorID int) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postError(err)
	}
	if !CanModifyPost(actorID, post) {
		return nil, models.ErrForbidden
	}
	return post, nil
}

func postError(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("post %w", models.ErrNotFound)
	}
	return err
}
