/*
Package domain contains the core domain models shared by the Tabula engine and its adapters.

It is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Result: the verdict of one validation call, as returned by the engine and its adapters.
  - ValidationEvent: the payload handed to lifecycle hooks after every validation.
  - LifecycleHooks: observability callbacks (metrics, audit logs).
*/
package domain
