package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RegistrationsTotal counts registrations by result (created, conflict, invalid, provisioning_failed, error).
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogspace_registrations_total",
			Help: "Registrations by result",
		},
		[]string{"result"},
	)

	// SubdomainCollisions counts candidates rejected by the subdomain unique index.
	SubdomainCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blogspace_subdomain_collisions_total",
			Help: "Subdomain candidates rejected because another blog holds them",
		},
	)

	// ProvisioningCompensations counts user rows deleted after blog provisioning failed, by outcome.
	ProvisioningCompensations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogspace_provisioning_compensations_total",
			Help: "Compensating user deletes after failed blog provisioning",
		},
		[]string{"outcome"},
	)

	// AccountDeletions counts account deletions by the step they stopped at (done, posts, blog, user).
	AccountDeletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogspace_account_deletions_total",
			Help: "Account deletions by final step reached",
		},
		[]string{"step"},
	)

	// OrphansRemoved counts rows removed by the orphan sweeper, by table.
	OrphansRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogspace_orphans_removed_total",
			Help: "Rows removed by the orphan sweeper",
		},
		[]string{"table"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	blogSubdomainPath  = regexp.MustCompile(`^/api/blogs/[a-z0-9-]+$`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration,
			RequestTotal,
			RegistrationsTotal,
			SubdomainCollisions,
			ProvisioningCompensations,
			AccountDeletions,
			OrphansRemoved,
		)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}
// and public blog lookups with {subdomain}.
// E.g. /api/posts/123 -> /api/posts/{id}, /api/blogs/alice -> /api/blogs/{subdomain}.
func NormalizePath(path string) string {
	path = numericPathSegment.ReplaceAllString(path, "/{id}$1")
	if path != "/api/blogs/me" && blogSubdomainPath.MatchString(path) {
		return "/api/blogs/{subdomain}"
	}
	return path
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func IncRegistration(result string) {
	RegistrationsTotal.WithLabelValues(result).Inc()
}

func AddSubdomainCollisions(n int) {
	if n > 0 {
		SubdomainCollisions.Add(float64(n))
	}
}

func IncProvisioningCompensation(outcome string) {
	ProvisioningCompensations.WithLabelValues(outcome).Inc()
}

func IncAccountDeletion(step string) {
	AccountDeletions.WithLabelValues(step).Inc()
}

func AddOrphansRemoved(table string, n int64) {
	if n > 0 {
		OrphansRemoved.WithLabelValues(table).Add(float64(n))
	}
}
