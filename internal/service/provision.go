package service

import (
	"context"
	"fmt"

	"github.com/crucial707/blogspace/internal/metrics"
	"github.com/crucial707/blogspace/internal/models"
	"github.com/crucial707/blogspace/internal/subdomain"
)

// provisionBlog creates the one blog every user gets at registration. The
// subdomain comes from the username; collisions are settled by the store's
// unique index and retried with a numeric suffix.
func (s *AccountService) provisionBlog(ctx context.Context, user *models.User) (*models.Blog, error) {
	name := fmt.Sprintf("%s's Blog", user.Username)
	description := fmt.Sprintf("Welcome to %s's personal blog!", user.Username)

	var blog *models.Blog
	_, collisions, err := subdomain.Allocate(ctx, user.Username, func(ctx context.Context, candidate string) error {
		b, err := s.blogs.Create(ctx, user.ID, name, candidate, description)
		if err != nil {
			return err
		}
		blog = b
		return nil
	})
	metrics.AddSubdomainCollisions(collisions)
	if err != nil {
		return nil, fmt.Errorf("allocate subdomain: %w", err)
	}

	blog.Owner = models.BlogOwner{ID: user.ID, Username: user.Username, Email: user.Email}
	return blog, nil
}
