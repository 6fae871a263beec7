package config

import "time"

// Default runtime limits and guardrails for the Geo Sales Report Server.
// These values are conservative and can be overridden by future configuration
// mechanisms (env, CLI, or files). They are referenced by internal/runtime.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxOpenArtifacts      = 4

	// Payload and scan limits
	DefaultMaxPayloadBytes  = 128 * 1024 // 128KB
	DefaultReportPageLines  = 400        // report text lines per page
	DefaultMaxScanRows      = 200
	DefaultMaxScanCols      = 256
	DefaultMaxCellsPerSheet = 50_000
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second

	// Artifact handle lifecycle
	DefaultArtifactIdleTTL       = 5 * time.Minute
	DefaultArtifactCleanupPeriod = time.Minute
)

// DefaultModelName is used to budget inline report text against a model
// context window when returning formatted reports to MCP clients.
const DefaultModelName = "gpt-4o"
