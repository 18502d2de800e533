package config

import "time"

// Default runtime limits and guardrails for the lead analytics server.
// These values are conservative and can be overridden by future configuration
// mechanisms (env, CLI, or files). They are referenced by internal/runtime.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxOpenDatasets       = 4

	// Row bounds
	DefaultMaxRowsPerLoad  = 100_000
	DefaultMaxRowsPerPage  = 500
	DefaultPreviewRowLimit = 10 // First 10 rows by default
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
)

const (
	// Dataset handle lifecycle
	DefaultDatasetIdleTTL       = 30 * time.Minute
	DefaultDatasetCleanupPeriod = time.Minute
)
