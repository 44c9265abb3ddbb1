package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/compiler"
	"github.com/aretw0/tabula/internal/config"
	loamAdapter "github.com/aretw0/tabula/pkg/adapters/loam"
	"github.com/aretw0/tabula/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/tabula/pkg/adapters/redis"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/fsm"
	"github.com/aretw0/tabula/pkg/ports"
)

// EngineOptions selects the machines and cache of a CLI engine.
type EngineOptions struct {
	Dir   string   // Loam repository of definitions, optional
	Files []string // standalone YAML/JSON definition files, optional

	Config *config.Config // cache, limits; nil means no cache
	Hooks  domain.LifecycleHooks
}

// CreateEngine initializes a Tabula engine with standard CLI conventions:
// built-ins first, then the definitions under Dir, then the given files.
// The returned cleanup releases the cache connection.
func CreateEngine(ctx context.Context, opts EngineOptions, logger *slog.Logger) (*tabula.Engine, func() error, error) {
	cleanup := func() error { return nil }

	loader, err := LoadDefinitions(opts.Dir, opts.Files)
	if err != nil {
		return nil, cleanup, err
	}

	engineOpts := []tabula.Option{
		tabula.WithLogger(logger),
		tabula.WithLifecycleHooks(opts.Hooks),
	}
	if loader != nil {
		engineOpts = append(engineOpts, tabula.WithLoader(loader))
	}

	if cfg := opts.Config; cfg != nil {
		engineOpts = append(engineOpts, tabula.WithMaxInputBytes(cfg.Limits.MaxInputBytes))

		cache, closeCache := createCache(ctx, cfg, logger)
		if cache != nil {
			engineOpts = append(engineOpts, tabula.WithCache(cache))
			cleanup = closeCache
		}
	}

	engine, err := tabula.New(engineOpts...)
	if err != nil {
		cleanup()
		return nil, func() error { return nil }, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, cleanup, nil
}

// createCache prefers Redis when configured and reachable, falling back to
// the in-process LRU.
func createCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.VerdictCache, func() error) {
	if cfg.Redis.Addr != "" {
		rc := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisAdapter.WithTTL(cfg.Redis.TTL))
		err := rc.Ping(ctx)
		if err == nil {
			logger.Info("using redis verdict cache", "addr", cfg.Redis.Addr)
			return rc, rc.Close
		}
		logger.Warn("redis unavailable, using in-memory verdict cache", "addr", cfg.Redis.Addr, "err", err)
		rc.Close()
	}
	if cfg.Cache.Size > 0 {
		return memory.NewCache(memory.WithSize(cfg.Cache.Size), memory.WithTTL(cfg.Cache.TTL)), func() error { return nil }
	}
	return nil, func() error { return nil }
}

// LoadDefinitions gathers the definitions of a repository and of standalone
// files behind one loader. It returns nil when neither is given.
func LoadDefinitions(dir string, files []string) (ports.DefinitionLoader, error) {
	var loaders []ports.DefinitionLoader

	if dir != "" {
		l, err := loamAdapter.Open(dir)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, l)
	}

	if len(files) > 0 {
		parser := compiler.NewParser()
		defs := make([]fsm.Definition, 0, len(files))
		for _, f := range files {
			def, err := parser.ParseFile(f)
			if err != nil {
				return nil, err
			}
			defs = append(defs, *def)
		}
		l, err := memory.NewLoader(defs...)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, l)
	}

	switch len(loaders) {
	case 0:
		return nil, nil
	case 1:
		return loaders[0], nil
	}
	return multiLoader(loaders), nil
}

// multiLoader lists the definitions of several loaders; later loaders win on
// name clashes.
type multiLoader []ports.DefinitionLoader

func (m multiLoader) GetDefinition(name string) (*fsm.Definition, error) {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		def, err := m[i].GetDefinition(name)
		if err == nil {
			return def, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (m multiLoader) ListDefinitions() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, l := range m {
		list, err := l.ListDefinitions()
		if err != nil {
			return nil, err
		}
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names, nil
}
