package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/blogspace/internal/models"
)

// BlogRepo persists blogs. Reads join the owning user so a blog whose
// owner is gone is reported as not found.
type BlogRepo struct {
	DB *sql.DB
}

func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{DB: db}
}

const blogColumns = `b.id, b.name, b.subdomain, b.owner_id, b.description, b.created_at, b.updated_at, u.username, u.email`

// ========================
// CREATE BLOG
// ========================

// Create inserts a blog. A taken subdomain returns models.ErrSubdomainTaken
// so the allocator can retry with the next candidate.
func (r *BlogRepo) Create(ctx context.Context, ownerID int, name, subdomain, description string) (*models.Blog, error) {
	blog := &models.Blog{
		Name:        name,
		Subdomain:   subdomain,
		OwnerID:     ownerID,
		Description: description,
	}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO blogs (name, subdomain, owner_id, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		name, subdomain, ownerID, description,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		return nil, blogWriteError("insert blog", err)
	}
	blog.Owner.ID = ownerID
	return blog, nil
}

// ========================
// GETTERS
// ========================

func (r *BlogRepo) GetByID(ctx context.Context, id int) (*models.Blog, error) {
	return r.getOne(ctx, `SELECT `+blogColumns+` FROM blogs b JOIN users u ON u.id = b.owner_id WHERE b.id = $1`, id)
}

func (r *BlogRepo) GetByOwner(ctx context.Context, ownerID int) (*models.Blog, error) {
	return r.getOne(ctx, `SELECT `+blogColumns+` FROM blogs b JOIN users u ON u.id = b.owner_id WHERE b.owner_id = $1`, ownerID)
}

func (r *BlogRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Blog, error) {
	return r.getOne(ctx, `SELECT `+blogColumns+` FROM blogs b JOIN users u ON u.id = b.owner_id WHERE b.subdomain = $1`, subdomain)
}

func (r *BlogRepo) getOne(ctx context.Context, query string, arg any) (*models.Blog, error) {
	var b models.Blog
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&b.ID,
		&b.Name,
		&b.Subdomain,
		&b.OwnerID,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Owner.Username,
		&b.Owner.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query blog: %w", err)
	}
	b.Owner.ID = b.OwnerID
	return &b, nil
}

// ========================
// UPDATE BLOG
// ========================

// Update overwrites the mutable fields. The owner is never changed.
func (r *BlogRepo) Update(ctx context.Context, id int, name, subdomain, description string) (*models.Blog, error) {
	var b models.Blog
	err := r.DB.QueryRowContext(ctx,
		`UPDATE blogs
		 SET name = $1, subdomain = $2, description = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING id, name, subdomain, owner_id, description, created_at, updated_at`,
		name, subdomain, description, id,
	).Scan(&b.ID, &b.Name, &b.Subdomain, &b.OwnerID, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, blogWriteError("update blog", err)
	}
	b.Owner.ID = b.OwnerID
	return &b, nil
}

// ========================
// DELETE
// ========================

// DeleteByOwner removes the owner's blog, if any, and reports how many rows went.
func (r *BlogRepo) DeleteByOwner(ctx context.Context, ownerID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM blogs WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete blog: %w", err)
	}
	return result.RowsAffected()
}

// DeleteOrphans removes blogs whose owner no longer exists.
func (r *BlogRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM blogs b WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.id = b.owner_id)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphan blogs: %w", err)
	}
	return result.RowsAffected()
}

func blogWriteError(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case "blogs_subdomain_key":
			return models.ErrSubdomainTaken
		case "blogs_owner_id_key":
			return fmt.Errorf("user already owns a blog: %w", models.ErrConflict)
		}
		return fmt.Errorf("blog %w", models.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
