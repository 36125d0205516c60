package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crucial707/blogspace/internal/auth"
	"github.com/crucial707/blogspace/internal/metrics"
	"github.com/crucial707/blogspace/internal/models"
	"github.com/crucial707/blogspace/internal/validate"
)

// AccountService handles registration, login, password changes and
// account deletion.
type AccountService struct {
	users  UserStore
	blogs  BlogStore
	posts  PostStore
	hasher *auth.PasswordHasher
	tokens TokenSigner
	audit  AuditLogger
}

// NewAccountService creates a new AccountService. audit may be nil.
func NewAccountService(users UserStore, blogs BlogStore, posts PostStore, hasher *auth.PasswordHasher, tokens TokenSigner, audit AuditLogger) *AccountService {
	return &AccountService{
		users:  users,
		blogs:  blogs,
		posts:  posts,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username" validate:"notblank,min=3,max=30"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// ChangePasswordInput is the password change payload.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,maxbytes=72"`
}

// Session is what a successful register or login hands back to the client.
// Blog is nil when a user has no blog.
type Session struct {
	User      *models.User
	Blog      *models.Blog
	Token     string
	ExpiresAt time.Time
}

// Register creates the user, provisions their blog and issues a token.
// If the blog cannot be created the user row is deleted again and the error
// matches models.ErrProvisioningFailed.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		metrics.IncRegistration("invalid")
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.IncRegistration("error")
		return nil, err
	}

	user, err := s.users.Create(ctx, in.Username, in.Email, hash)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			metrics.IncRegistration("conflict")
		} else {
			metrics.IncRegistration("error")
		}
		return nil, err
	}

	blog, err := s.provisionBlog(ctx, user)
	if err != nil {
		s.compensateUser(ctx, user, false, err)
		metrics.IncRegistration("provisioning_failed")
		return nil, fmt.Errorf("%w: %w", models.ErrProvisioningFailed, err)
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.compensateUser(ctx, user, true, err)
		metrics.IncRegistration("error")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.IncRegistration("created")
	s.record(ctx, user.ID, models.AuditRegister, "user", user.ID, "blog="+blog.Subdomain)
	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "blog_id", blog.ID, "subdomain", blog.Subdomain)

	return &Session{User: user, Blog: blog, Token: token, ExpiresAt: exp}, nil
}

// compensateUser undoes a registration that failed after the user insert,
// removing the blog first when one was provisioned. It runs detached from the
// request context so a cancelled request still cleans up.
func (s *AccountService) compensateUser(ctx context.Context, user *models.User, withBlog bool, cause error) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if withBlog {
		if _, err := s.blogs.DeleteByOwner(cctx, user.ID); err != nil {
			metrics.IncProvisioningCompensation("failed")
			slog.ErrorContext(ctx, "compensating blog delete failed",
				"user_id", user.ID, "cause", cause, "error", err)
			return
		}
	}

	if err := s.users.Delete(cctx, user.ID); err != nil {
		metrics.IncProvisioningCompensation("failed")
		slog.ErrorContext(ctx, "compensating user delete failed",
			"user_id", user.ID, "cause", cause, "error", err)
		return
	}
	metrics.IncProvisioningCompensation("deleted")
	slog.WarnContext(ctx, "registration failed, user rolled back",
		"user_id", user.ID, "error", cause)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, models.ErrUnauthorized
	}

	blog, err := s.blogs.GetByOwner(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("get blog: %w", err)
		}
		blog = nil
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Blog: blog, Token: token, ExpiresAt: exp}, nil
}

// ChangePassword replaces the user's password after verifying the current one.
// Tokens issued before the change stay valid until they expire.
func (s *AccountService) ChangePassword(ctx context.Context, userID int, in ChangePasswordInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("user %w", models.ErrNotFound)
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !s.hasher.Verify(user.PasswordHash, in.CurrentPassword) {
		return models.ErrInvalidCredential
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("user %w", models.ErrNotFound)
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.record(ctx, user.ID, models.AuditPasswordChange, "user", user.ID, "")
	return nil
}

// DeleteAccount removes the user's posts, then their blog, then the user.
// The steps are not atomic: it stops at the first failure and does not undo
// earlier steps. The orphan sweeper removes what such a failure leaves behind.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int) error {
	nPosts, err := s.posts.DeleteByAuthor(ctx, userID)
	if err != nil {
		metrics.IncAccountDeletion("posts")
		return fmt.Errorf("delete posts: %w", err)
	}

	nBlogs, err := s.blogs.DeleteByOwner(ctx, userID)
	if err != nil {
		metrics.IncAccountDeletion("blog")
		slog.ErrorContext(ctx, "account deletion stopped after posts", "user_id", userID, "posts_deleted", nPosts)
		return fmt.Errorf("delete blog: %w", err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("user %w", models.ErrNotFound)
		}
		metrics.IncAccountDeletion("user")
		slog.ErrorContext(ctx, "account deletion stopped after blog",
			"user_id", userID, "posts_deleted", nPosts, "blogs_deleted", nBlogs)
		return fmt.Errorf("delete user: %w", err)
	}

	metrics.IncAccountDeletion("done")
	s.record(ctx, userID, models.AuditAccountDelete, "user", userID, fmt.Sprintf("posts=%d blogs=%d", nPosts, nBlogs))
	slog.InfoContext(ctx, "account deleted", "user_id", userID, "posts_deleted", nPosts, "blogs_deleted", nBlogs)
	return nil
}

func (s *AccountService) record(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) {
	recordAudit(ctx, s.audit, userID, action, resourceType, resourceID, details)
}

func recordAudit(ctx context.Context, audit AuditLogger, userID int, action, resourceType string, resourceID int, details string) {
	if audit == nil {
		return
	}
	if err := audit.Log(ctx, userID, action, resourceType, resourceID, details); err != nil {
		slog.WarnContext(ctx, "audit log write failed", "action", action, "user_id", userID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
