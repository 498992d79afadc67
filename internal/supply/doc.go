// Package supply keeps a photo display fed with assets drawn from several
// filter-scoped pools backed by a remote Immich catalog. It is structured
// into small files by concern:
//
//   - config.go: package defaults for queue sizing and cache TTLs.
//   - source.go: Filter variants and the catalog-backed AssetSource.
//   - pool.go: Pool, the bounded self-refilling asset queue.
//   - poolset.go: building the active pool set for one account.
//   - cache.go: generic single-flight TTL cache.
//   - selector.go: weighted random draw.
//   - account.go: per-account supply context (client + pools + rng ownership).
//   - strategy.go: multi-account selection and bulk proportional sampling.
//   - errors.go: error types and helpers (IsAccountNotFound).
//   - metrics.go: prometheus instrumentation.
//
// All remote failures degrade to zero counts or empty results inside this
// package; callers only ever observe "no asset available", never an error
// from the catalog.
package supply
