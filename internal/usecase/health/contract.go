package health

import "context"

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks embedding or generation provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexStats reports the size of the built chunk index.
type IndexStats interface {
	Len() int
}
