/*
Package ports defines the driven ports (interfaces) for the Tabula engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various definition sources and verdict caches.

# Key Interfaces

  - DefinitionLoader: Responsible for loading machine definitions (e.g., from Loam or Memory).
  - VerdictCache: Responsible for storing verdicts of previously validated inputs.
*/
package ports
