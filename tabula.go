package tabula

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aretw0/tabula/internal/logging"
	loamAdapter "github.com/aretw0/tabula/pkg/adapters/loam"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/fsm"
	"github.com/aretw0/tabula/pkg/machines"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/registry"
)

// Engine is the high-level entry point for the Tabula library.
// It holds the compiled machines by name and answers validation requests,
// optionally through a verdict cache.
type Engine struct {
	registry *registry.Registry
	loader   ports.DefinitionLoader
	cache    ports.VerdictCache
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxInput int
	builtins bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader adds every definition the loader lists to the engine.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCache serves repeated validations from a verdict cache.
func WithCache(c ports.VerdictCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxInputBytes rejects inputs longer than n bytes (0 = unlimited).
func WithMaxInputBytes(n int) Option {
	return func(e *Engine) {
		e.maxInput = n
	}
}

// WithoutBuiltins starts the engine without the binary and expression machines.
func WithoutBuiltins() Option {
	return func(e *Engine) {
		e.builtins = false
	}
}

// New initializes a new Tabula Engine.
// The built-in machines are always registered unless WithoutBuiltins is given;
// definitions from a loader are compiled eagerly and replace built-ins of the
// same name.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		registry: registry.NewRegistry(),
		builtins: true,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.builtins {
		eng.registry.Register(machines.All()...)
	}

	if eng.loader != nil {
		if err := eng.load(); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

// Open creates an engine serving the definitions stored in a Loam repository at dir.
func Open(dir string, opts ...Option) (*Engine, error) {
	loader, err := loamAdapter.Open(dir)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithLoader(loader))...)
}

func (e *Engine) load() error {
	names, err := e.loader.ListDefinitions()
	if err != nil {
		return fmt.Errorf("failed to list definitions: %w", err)
	}

	var errs []error
	for _, name := range names {
		def, err := e.loader.GetDefinition(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		m, err := fsm.FromDefinition(*def, fsm.WithLogger(e.logger))
		if err != nil {
			errs = append(errs, fmt.Errorf("machine %s: %w", name, err))
			continue
		}
		if e.registry.Register(m) {
			e.logger.Warn("definition replaces registered machine", "machine", m.Name())
		}
		e.logger.Debug("machine loaded", "machine", m.Name(), "states", m.Table().NumStates())
	}
	return errors.Join(errs...)
}

// Machines returns the names of the registered machines, sorted.
func (e *Engine) Machines() []string {
	return e.registry.Names()
}

// Machine looks up a registered machine.
func (e *Engine) Machine(name string) (*fsm.Machine, error) {
	m, ok := e.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMachine, name)
	}
	return m, nil
}

// Validate runs input through the named machine and returns the verdict.
// Cache failures are logged and never fail a validation.
func (e *Engine) Validate(ctx context.Context, machine, input string) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	m, err := e.Machine(machine)
	if err != nil {
		return domain.Result{}, err
	}
	if err := e.checkSize(input); err != nil {
		return domain.Result{}, err
	}

	start := time.Now()
	key := domain.CacheKey(machine, m.Fingerprint(), input)

	if e.cache != nil {
		res, err := e.cache.Get(ctx, key)
		switch {
		case err == nil:
			res.Cached = true
			e.emit(ctx, input, res, start)
			return res, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			e.logger.Warn("verdict cache read failed", "machine", machine, "err", err)
		}
	}

	out := m.Evaluate(input)
	res := domain.Result{
		Machine:  machine,
		Input:    input,
		Final:    m.Table().StateName(out.Final),
		Accepted: out.Accepted,
		Steps:    out.Consumed,
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, res); err != nil {
			e.logger.Warn("verdict cache write failed", "machine", machine, "err", err)
		}
	}

	e.emit(ctx, input, res, start)
	return res, nil
}

// Trace validates input and also returns every transition taken.
// Traces bypass the verdict cache.
func (e *Engine) Trace(ctx context.Context, machine, input string) ([]fsm.Step, domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Result{}, err
	}
	m, err := e.Machine(machine)
	if err != nil {
		return nil, domain.Result{}, err
	}
	if err := e.checkSize(input); err != nil {
		return nil, domain.Result{}, err
	}

	steps, out := m.Trace(input)
	return steps, domain.Result{
		Machine:  machine,
		Input:    input,
		Final:    m.Table().StateName(out.Final),
		Accepted: out.Accepted,
		Steps:    out.Consumed,
	}, nil
}

func (e *Engine) checkSize(input string) error {
	if e.maxInput > 0 && len(input) > e.maxInput {
		return fmt.Errorf("%w: %d bytes, limit is %d", domain.ErrInputTooLarge, len(input), e.maxInput)
	}
	return nil
}

func (e *Engine) emit(ctx context.Context, input string, res domain.Result, start time.Time) {
	elapsed := time.Since(start)
	e.logger.Debug("input validated",
		"machine", res.Machine,
		"accepted", res.Accepted,
		"final", res.Final,
		"cached", res.Cached,
	)
	if e.hooks.OnValidate != nil {
		e.hooks.OnValidate(ctx, &domain.ValidationEvent{
			Machine:     res.Machine,
			InputLength: utf8.RuneCountInString(input),
			Steps:       res.Steps,
			Final:       res.Final,
			Accepted:    res.Accepted,
			Cached:      res.Cached,
			Duration:    elapsed,
		})
	}
}

// IsBinaryNumber reports whether s is a non-empty string of the digits 0 and 1.
func IsBinaryNumber(s string) bool {
	return machines.Binary.Validate(s)
}

// IsValidExpression reports whether s is an arithmetic expression over
// non-negative integers with binary + and -.
//
// A trailing operator is accepted: IsValidExpression("3+") is true.
func IsValidExpression(s string) bool {
	return machines.Expression.Validate(s)
}
