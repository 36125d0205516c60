// Package service holds the account, blog and post operations and the
// ownership rules that guard them. Handlers and the CLI-facing API only talk
// to these services; persistence is reached through the interfaces below.
package service

import (
	"context"
	"time"

	"github.com/crucial707/blogspace/internal/models"
)

// UserStore persists users. Create must report duplicates as models.ErrConflict.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, id int) error
}

// BlogStore persists blogs. Create and Update must report a taken subdomain
// as models.ErrSubdomainTaken.
type BlogStore interface {
	Create(ctx context.Context, ownerID int, name, subdomain, description string) (*models.Blog, error)
	GetByID(ctx context.Context, id int) (*models.Blog, error)
	GetByOwner(ctx context.Context, ownerID int) (*models.Blog, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Blog, error)
	Update(ctx context.Context, id int, name, subdomain, description string) (*models.Blog, error)
	DeleteByOwner(ctx context.Context, ownerID int) (int64, error)
}

// PostStore persists posts.
type PostStore interface {
	Create(ctx context.Context, authorID, blogID int, title, content, featuredImage, status string) (*models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	ListByBlog(ctx context.Context, blogID int) ([]models.Post, error)
	Update(ctx context.Context, id int, title, content, featuredImage string) (*models.Post, error)
	Delete(ctx context.Context, id int) error
	DeleteByAuthor(ctx context.Context, authorID int) (int64, error)
}

// AuditLogger records security-relevant events. Failures are logged, never returned.
type AuditLogger interface {
	Log(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) error
}

// TokenSigner issues bearer tokens for a user.
type TokenSigner interface {
	Issue(userID int) (string, time.Time, error)
}
