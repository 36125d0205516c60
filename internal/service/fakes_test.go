package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/crucial707/blogspace/internal/auth"
	"github.com/crucial707/blogspace/internal/models"
)

// memStore is an in-memory UserStore, BlogStore and PostStore with the same
// uniqueness rules as the SQL schema.
type memStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
	blogs  map[int]*models.Blog
	posts  map[int]*models.Post

	failBlogCreate error
	failUserDelete error
	failBlogDelete error
	audits         []string
}

func newMemStore() *memStore {
	return &memStore{
		users: map[int]*models.User{},
		blogs: map[int]*models.Blog{},
		posts: map[int]*models.Post{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

type memUsers struct{ *memStore }
type memBlogs struct{ *memStore }
type memPosts struct{ *memStore }

func (m memUsers) Create(_ context.Context, username, email, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, fmt.Errorf("user with this email %w", models.ErrConflict)
		}
		if u.Username == username {
			return nil, fmt.Errorf("user with this username %w", models.ErrConflict)
		}
	}
	u := &models.User{ID: m.id(), Username: username, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m memUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m memUsers) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUserDelete != nil {
		return m.failUserDelete
	}
	if _, ok := m.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m memBlogs) Create(_ context.Context, ownerID int, name, sub, desc string) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBlogCreate != nil {
		return nil, m.failBlogCreate
	}
	for _, b := range m.blogs {
		if b.Subdomain == sub {
			return nil, models.ErrSubdomainTaken
		}
		if b.OwnerID == ownerID {
			return nil, fmt.Errorf("user already owns a blog: %w", models.ErrConflict)
		}
	}
	now := time.Now()
	b := &models.Blog{ID: m.id(), Name: name, Subdomain: sub, OwnerID: ownerID, Description: desc, CreatedAt: now, UpdatedAt: now}
	m.blogs[b.ID] = b
	return m.withOwner(b), nil
}

func (m *memStore) withOwner(b *models.Blog) *models.Blog {
	cp := *b
	if u, ok := m.users[b.OwnerID]; ok {
		cp.Owner = models.BlogOwner{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return &cp
}

func (m memBlogs) GetByID(_ context.Context, id int) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return m.withOwner(b), nil
}

func (m memBlogs) GetByOwner(_ context.Context, ownerID int) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blogs {
		if b.OwnerID == ownerID {
			return m.withOwner(b), nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memBlogs) GetBySubdomain(_ context.Context, sub string) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blogs {
		if b.Subdomain == sub {
			return m.withOwner(b), nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memBlogs) Update(_ context.Context, id int, name, sub, desc string) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, other := range m.blogs {
		if other.ID != id && other.Subdomain == sub {
			return nil, models.ErrSubdomainTaken
		}
	}
	b.Name, b.Subdomain, b.Description, b.UpdatedAt = name, sub, desc, time.Now()
	return m.withOwner(b), nil
}

func (m memBlogs) DeleteByOwner(_ context.Context, ownerID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBlogDelete != nil {
		return 0, m.failBlogDelete
	}
	var n int64
	for id, b := range m.blogs {
		if b.OwnerID == ownerID {
			delete(m.blogs, id)
			n++
		}
	}
	return n, nil
}

func (m memPosts) Create(_ context.Context, authorID, blogID int, title, content, image, status string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	p := &models.Post{ID: m.id(), Title: title, Content: content, FeaturedImage: image,
		AuthorID: authorID, BlogID: blogID, Status: status, CreatedAt: now, UpdatedAt: now}
	if u, ok := m.users[authorID]; ok {
		p.Author = models.PostAuthor{ID: u.ID, Username: u.Username}
	}
	m.posts[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m memPosts) GetByID(_ context.Context, id int) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m memPosts) ListByBlog(_ context.Context, blogID int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Post{}
	for _, p := range m.posts {
		if p.BlogID == blogID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memPosts) Update(_ context.Context, id int, title, content, image string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p.Title, p.Content, p.FeaturedImage, p.UpdatedAt = title, content, image, time.Now()
	cp := *p
	return &cp, nil
}

func (m memPosts) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m memPosts) DeleteByAuthor(_ context.Context, authorID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, p := range m.posts {
		if p.AuthorID == authorID {
			delete(m.posts, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Log(_ context.Context, userID int, action, _ string, _ int, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, fmt.Sprintf("%d:%s", userID, action))
	return nil
}

var errStoreDown = errors.New("store down")

type fixture struct {
	store    *memStore
	accounts *AccountService
	blogs    *BlogService
	posts    *PostService
	tokens   *auth.TokenIssuer
}

func newFixture() *fixture {
	st := newMemStore()
	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	hasher := auth.NewPasswordHasher(4)
	return &fixture{
		store:    st,
		accounts: NewAccountService(memUsers{st}, memBlogs{st}, memPosts{st}, hasher, tokens, st),
		blogs:    NewBlogService(memBlogs{st}, st),
		posts:    NewPostService(memBlogs{st}, memPosts{st}, st),
		tokens:   tokens,
	}
}

func (f *fixture) register(t *testing.T, username, email string) *Session {
	t.Helper()
	s, err := f.accounts.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return s
}
