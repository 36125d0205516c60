// Package subdomain derives unique blog subdomains from display names.
//
// Uniqueness is owned by the store: Allocate only proposes candidates and
// relies on the insert failing with models.ErrSubdomainTaken when another
// blog already holds one, so concurrent registrations racing for the same
// seed each end up with a distinct value.
package subdomain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crucial707/blogspace/internal/models"
)

// MaxAttempts bounds the number of candidates tried for one seed.
const MaxAttempts = 1000

// ErrExhausted is returned when every candidate up to MaxAttempts is taken.
var ErrExhausted = errors.New("no free subdomain")

var pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reserved subdomains collide with fixed routes under /api/blogs.
var reserved = map[string]bool{
	"me": true,
}

// Normalize lowercases seed and replaces every rune outside [a-z0-9-] with '-'.
func Normalize(seed string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(seed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	return b.String()
}

// Valid reports whether s is a well-formed subdomain.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Reserved reports whether s is held back for a fixed route.
func Reserved(s string) bool {
	return reserved[s]
}

// Candidate returns the n-th candidate for base: base itself, then base-1, base-2, ...
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// InsertFunc tries to persist a blog under candidate.
type InsertFunc func(ctx context.Context, candidate string) error

// Allocate normalizes seed and calls insert with successive candidates until
// one is accepted, skipping reserved names. It returns the accepted subdomain, or the first error that
// is not models.ErrSubdomainTaken. collisions counts rejected candidates.
func Allocate(ctx context.Context, seed string, insert InsertFunc) (sub string, collisions int, err error) {
	base := Normalize(seed)
	if base == "" {
		return "", 0, fmt.Errorf("empty subdomain seed: %w", models.ErrValidation)
	}

	for n := 0; n < MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return "", collisions, err
		}
		candidate := Candidate(base, n)
		if Reserved(candidate) {
			continue
		}
		err := insert(ctx, candidate)
		if err == nil {
			return candidate, collisions, nil
		}
		if !errors.Is(err, models.ErrSubdomainTaken) {
			return "", collisions, err
		}
		collisions++
	}
	return "", collisions, fmt.Errorf("%w for %q after %d attempts", ErrExhausted, base, MaxAttempts)
}
