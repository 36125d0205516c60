package models

import "time"

const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

type PostAuthor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage"`
	AuthorID      int        `json:"-"`
	Author        PostAuthor `json:"author"`
	BlogID        int        `json:"blog"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
