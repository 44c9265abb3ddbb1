package domain

import (
	"context"
	"time"
)

// ValidationEvent describes a finished validation.
type ValidationEvent struct {
	Machine     string
	InputLength int // in symbols
	Steps       int
	Final       string
	Accepted    bool
	Cached      bool
	Duration    time.Duration
}

// LifecycleHooks defines callbacks for engine events.
// Hooks run synchronously on the validating goroutine and must not block.
type LifecycleHooks struct {
	OnValidate func(ctx context.Context, e *ValidationEvent)
}
