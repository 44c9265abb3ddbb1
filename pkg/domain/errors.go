package domain

import "errors"

// ErrUnknownMachine is returned when a validation names a machine that is not registered.
var ErrUnknownMachine = errors.New("unknown machine")

// ErrCacheMiss is returned by verdict caches when no verdict is stored for a key.
var ErrCacheMiss = errors.New("verdict not cached")

// ErrInputTooLarge is returned when an input exceeds the configured size limit.
var ErrInputTooLarge = errors.New("input too large")
