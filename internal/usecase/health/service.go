package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Queries still get a reply, possibly the default one.
	Degraded Status = "degraded"
	// Unhealthy indicates the bot cannot answer at all.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index      IndexStats
	cache      CachePinger
	embedding  ProviderChecker
	generation ProviderChecker
}

// New creates a Service. cache, embedding and generation can be nil.
func New(index IndexStats, cache CachePinger, embedding, generation ProviderChecker) *Service {
	return &Service{index: index, cache: cache, embedding: embedding, generation: generation}
}

// Check runs health checks against all components.
// A missing or empty index is Unhealthy; any other failure is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	indexOK := s.index != nil && s.index.Len() > 0
	checks["index"] = result(indexOK)

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx) == nil)
	}
	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx) == nil)
	}
	if s.generation != nil {
		checks["generation"] = result(s.generation.HealthCheck(ctx) == nil)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if !indexOK {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
