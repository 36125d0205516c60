// Package sweeper removes rows a partially failed account deletion left
// behind: posts whose author or blog is gone, and blogs whose owner is gone.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crucial707/blogspace/internal/metrics"
	"github.com/robfig/cron/v3"
)

// OrphanDeleter deletes rows whose parent no longer exists.
type OrphanDeleter interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// Result is the outcome of one sweep.
type Result struct {
	Posts int64
	Blogs int64
}

// Sweeper runs the orphan cleanup, on demand or on a cron schedule.
type Sweeper struct {
	posts   OrphanDeleter
	blogs   OrphanDeleter
	timeout time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

// New returns a Sweeper. Posts are swept first; posts of a blog removed in
// the same run are caught by the next one.
func New(posts, blogs OrphanDeleter) *Sweeper {
	return &Sweeper{posts: posts, blogs: blogs, timeout: time.Minute}
}

// Sweep deletes orphaned posts, then orphaned blogs.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	n, err := s.posts.DeleteOrphans(ctx)
	if err != nil {
		return res, fmt.Errorf("sweep posts: %w", err)
	}
	res.Posts = n
	metrics.AddOrphansRemoved("posts", n)

	n, err = s.blogs.DeleteOrphans(ctx)
	if err != nil {
		return res, fmt.Errorf("sweep blogs: %w", err)
	}
	res.Blogs = n
	metrics.AddOrphansRemoved("blogs", n)
	return res, nil
}

// Start schedules Sweep with a cron spec such as "@hourly" or "*/15 * * * *".
// An empty spec leaves the sweeper idle. Runs never overlap.
func (s *Sweeper) Start(spec string) error {
	if spec == "" {
		slog.Info("sweeper: disabled")
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("sweeper: already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("sweeper: invalid schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	slog.Info("sweeper: scheduled", "schedule", spec)
	return nil
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.Sweep(ctx)
	if err != nil {
		slog.Error("sweeper: run failed", "error", err, "posts_removed", res.Posts)
		return
	}
	if res.Posts > 0 || res.Blogs > 0 {
		slog.Warn("sweeper: removed orphans", "posts", res.Posts, "blogs", res.Blogs,
			"duration_ms", time.Since(start).Milliseconds())
	}
}
