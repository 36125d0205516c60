package service

import "github.com/crucial707/blogspace/internal/models"

// CanModifyPost reports whether actorID may update or delete p.
func CanModifyPost(actorID int, p *models.Post) bool {
	return p != nil && actorID > 0 && p.AuthorID == actorID
}

// CanModifyBlog reports whether actorID may update b.
func CanModifyBlog(actorID int, b *models.Blog) bool {
	return b != nil && actorID > 0 && b.OwnerID == actorID
}
