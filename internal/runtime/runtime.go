package runtime

import (
	"context"
	"time"

	"github.com/salesops/georeport/config"
	"golang.org/x/sync/semaphore"
)

// Limits captures the concurrency and artifact guardrails configured for the
// server.
type Limits struct {
	// Concurrency caps
	MaxConcurrentRequests int
	MaxOpenArtifacts      int

	// Payload bounds
	MaxPayloadBytes int
	ReportPageLines int

	// Timeouts
	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with sensible fallbacks when values are unset.
func NewLimits(maxConcurrentRequests, maxOpenArtifacts int) Limits {
	if maxConcurrentRequests <= 0 {
		maxConcurrentRequests = config.DefaultMaxConcurrentRequests
	}
	if maxOpenArtifacts <= 0 {
		maxOpenArtifacts = config.DefaultMaxOpenArtifacts
	}

	return Limits{
		MaxConcurrentRequests: maxConcurrentRequests,
		MaxOpenArtifacts:      maxOpenArtifacts,
		MaxPayloadBytes:       config.DefaultMaxPayloadBytes,
		ReportPageLines:       config.DefaultReportPageLines,
		OperationTimeout:      config.DefaultOperationTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// Controller coordinates runtime semaphores for request and artifact
// guardrails.
type Controller struct {
	limits            Limits
	requestSemaphore  *semaphore.Weighted
	artifactSemaphore *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:            limits,
		requestSemaphore:  semaphore.NewWeighted(int64(limits.MaxConcurrentRequests)),
		artifactSemaphore: semaphore.NewWeighted(int64(limits.MaxOpenArtifacts)),
	}
}

// AcquireRequest reserves capacity for an incoming request.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// AcquireArtifact reserves an open artifact slot.
func (c *Controller) AcquireArtifact(ctx context.Context) error {
	return c.artifactSemaphore.Acquire(ctx, 1)
}

// ReleaseArtifact frees an open artifact slot.
func (c *Controller) ReleaseArtifact() {
	c.artifactSemaphore.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for telemetry and
// discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
