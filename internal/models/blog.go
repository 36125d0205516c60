package models

import "time"

// BlogOwner is the subset of the owning user rendered with a blog.
// Email is only filled for the owner's own view.
type BlogOwner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type Blog struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Subdomain   string    `json:"subdomain"`
	OwnerID     int       `json:"-"`
	Owner       BlogOwner `json:"owner"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlogSummary is the short form returned next to users and post listings.
type BlogSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

func (b *Blog) Summary() BlogSummary {
	return BlogSummary{ID: b.ID, Name: b.Name, Subdomain: b.Subdomain}
}
