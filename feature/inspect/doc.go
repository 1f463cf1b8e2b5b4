// Package inspect exposes the admin routes for operating a running site:
// health, a dry-run of the resolver for any path, and the metadata cache
// counters and invalidation.
package inspect
