// Package metrics provides constants used across metric definitions.
package metrics

// Label value constants used for metric labels.
const (
	// StatusSuccess marks a completed operation.
	StatusSuccess = "success"
	// StatusError marks a failed operation.
	StatusError = "error"

	// CacheHit is the result label for a sample cache hit.
	CacheHit = "hit"
	// CacheMiss is the result label for a sample cache miss.
	CacheMiss = "miss"
)

// Histogram bucket configuration constants.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)
