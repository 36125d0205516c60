package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/blogspace/internal/models"
)

// PostRepo persists posts. Reads left-join the author so orphaned rows
// still scan with an empty username.
type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

const postColumns = `p.id, p.title, p.content, p.featured_image, p.author_id, p.blog_id, p.status, p.created_at, p.updated_at, COALESCE(u.username, '')`

// ========================
// CREATE POST
// ========================

func (r *PostRepo) Create(ctx context.Context, authorID, blogID int, title, content, featuredImage, status string) (*models.Post, error) {
	query := `
		WITH p AS (
			INSERT INTO posts (title, content, featured_image, author_id, blog_id, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM p LEFT JOIN users u ON u.id = p.author_id
	`
	p, err := scanPost(r.DB.QueryRowContext(ctx, query, title, content, featuredImage, authorID, blogID, status))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// ========================
// GET POST BY ID
// ========================

func (r *PostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p LEFT JOIN users u ON u.id = p.author_id WHERE p.id = $1`
	p, err := scanPost(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query post: %w", err)
	}
	return p, nil
}

// ========================
// LIST POSTS BY BLOG
// ========================

// ListByBlog returns the blog's posts, newest first.
func (r *PostRepo) ListByBlog(ctx context.Context, blogID int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p LEFT JOIN users u ON u.id = p.author_id
		WHERE p.blog_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ========================
// UPDATE POST
// ========================

func (r *PostRepo) Update(ctx context.Context, id int, title, content, featuredImage string) (*models.Post, error) {
	query := `
		WITH p AS (
			UPDATE posts
			SET title = $1, content = $2, featured_image = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM p LEFT JOIN users u ON u.id = p.author_id
	`
	p, err := scanPost(r.DB.QueryRowContext(ctx, query, title, content, featuredImage, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// ========================
// DELETE
// ========================

func (r *PostRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectAffected(result)
}

// DeleteByAuthor removes every post written by the user.
func (r *PostRepo) DeleteByAuthor(ctx context.Context, authorID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, fmt.Errorf("delete posts by author: %w", err)
	}
	return result.RowsAffected()
}

// DeleteOrphans removes posts whose author or blog no longer exists.
func (r *PostRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM posts p
		 WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.id = p.author_id)
		    OR NOT EXISTS (SELECT 1 FROM blogs b WHERE b.id = p.blog_id)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphan posts: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.FeaturedImage,
		&p.AuthorID,
		&p.BlogID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Author.Username,
	)
	if err != nil {
		return nil, err
	}
	p.Author.ID = p.AuthorID
	return &p, nil
}
