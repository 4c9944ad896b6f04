package usecase

import "time"

const (
	// summaryCacheKey is the redis key holding the aggregated summary
	// snapshot; mutations delete it.
	summaryCacheKey = "summary:installments"

	// summaryCacheTTL bounds staleness when invalidation is missed.
	summaryCacheTTL = 5 * time.Minute

	maxListLimit = 1000
)
