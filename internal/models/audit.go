package models

import "time"

const (
	AuditRegister       = "register"
	AuditPasswordChange = "password_change"
	AuditAccountDelete  = "account_delete"
	AuditBlogUpdate     = "blog_update"
	AuditPostDelete     = "post_delete"
)

// AuditEntry represents one audit log row. Rows outlive the user they
// reference so account deletions stay traceable.
type AuditEntry struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"` // user, blog, post
	ResourceID   int       `json:"resource_id"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
