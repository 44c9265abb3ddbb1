package ports

import (
	"context"

	"github.com/aretw0/tabula/pkg/domain"
)

// VerdictCache stores verdicts keyed by domain.CacheKey.
// Verdicts are pure functions of the machine's table and the input; the key
// carries the machine fingerprint, so entries never go stale.
type VerdictCache interface {
	// Get returns the stored verdict.
	// Returns domain.ErrCacheMiss if nothing is stored for key.
	Get(ctx context.Context, key string) (domain.Result, error)

	// Set stores a verdict.
	Set(ctx context.Context, key string, result domain.Result) error
}
