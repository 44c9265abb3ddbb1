package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/fsm"
	"github.com/aretw0/tabula/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DefinitionLoader.
// expected maps every definition name the loader holds to the initial state it must declare.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, expected map[string]string) {
	t.Helper()

	// 1. Test GetDefinition (Success)
	t.Run("GetDefinition_Success", func(t *testing.T) {
		for name, initial := range expected {
			def, err := loader.GetDefinition(name)
			if err != nil {
				t.Fatalf("unexpected error getting definition %s: %v", name, err)
			}
			if def.Name != name {
				t.Errorf("name mismatch: got %q, want %q", def.Name, name)
			}
			if def.Initial != initial {
				t.Errorf("initial state mismatch for %s: got %q, want %q", name, def.Initial, initial)
			}
			if _, err := fsm.FromDefinition(*def); err != nil {
				t.Errorf("definition %s does not compile: %v", name, err)
			}
		}
	})

	// 2. Test GetDefinition (NotFound)
	t.Run("GetDefinition_NotFound", func(t *testing.T) {
		_, err := loader.GetDefinition("non-existent-machine")
		if err == nil {
			t.Error("expected error for non-existent definition, got nil")
		}
	})

	// 3. Test ListDefinitions
	t.Run("ListDefinitions", func(t *testing.T) {
		names, err := loader.ListDefinitions()
		if err != nil {
			t.Fatalf("unexpected error listing definitions: %v", err)
		}
		if len(names) != len(expected) {
			t.Errorf("expected %d definitions, got %d", len(expected), len(names))
		}
		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("definition %s missing from list", name)
			}
		}
	})
}

// VerdictCacheContractTest is a reusable test suite that verifies if an adapter complies with ports.VerdictCache.
func VerdictCacheContractTest(t *testing.T, cache ports.VerdictCache) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Miss", func(t *testing.T) {
		_, err := cache.Get(ctx, domain.CacheKey("expression", "f1", "never-stored"))
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.Fatalf("expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Set_Then_Get", func(t *testing.T) {
		want := domain.Result{
			Machine:  "expression",
			Input:    "3+2-1",
			Final:    "number",
			Accepted: true,
			Steps:    5,
		}
		key := domain.CacheKey(want.Machine, "f1", want.Input)
		if err := cache.Set(ctx, key, want); err != nil {
			t.Fatalf("unexpected error on set: %v", err)
		}
		got, err := cache.Get(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error on get: %v", err)
		}
		if got != want {
			t.Errorf("cached verdict mismatch: got %+v, want %+v", got, want)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := domain.CacheKey("binary", "f1", "102")
		first := domain.Result{Machine: "binary", Input: "102", Final: "dead", Steps: 3}
		second := first
		second.Steps = 2
		if err := cache.Set(ctx, key, first); err != nil {
			t.Fatalf("unexpected error on set: %v", err)
		}
		if err := cache.Set(ctx, key, second); err != nil {
			t.Fatalf("unexpected error on overwrite: %v", err)
		}
		got, err := cache.Get(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error on get: %v", err)
		}
		if got.Steps != 2 {
			t.Errorf("expected overwritten verdict, got %+v", got)
		}
	})

	t.Run("Keys_Are_Isolated", func(t *testing.T) {
		a := domain.Result{Machine: "binary", Input: "1", Final: "digits", Accepted: true, Steps: 1}
		b := domain.Result{Machine: "binary", Input: "2", Final: "dead", Steps: 1}
		if err := cache.Set(ctx, domain.CacheKey(a.Machine, "f1", a.Input), a); err != nil {
			t.Fatal(err)
		}
		if err := cache.Set(ctx, domain.CacheKey(b.Machine, "f1", b.Input), b); err != nil {
			t.Fatal(err)
		}
		got, err := cache.Get(ctx, domain.CacheKey(a.Machine, "f1", a.Input))
		if err != nil {
			t.Fatal(err)
		}
		if got != a {
			t.Errorf("got %+v, want %+v", got, a)
		}
	})
}
