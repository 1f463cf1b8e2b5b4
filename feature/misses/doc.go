// Package misses records request paths that did not resolve to a file.
//
// Misses are kept in a single gorm model (table "misses") keyed by path, with
// a hit counter and first/last seen timestamps. The site responder reports
// every NotFound and Invalid outcome to a Collector, which queues them on a
// bounded channel and writes them in the background; a full queue drops the
// miss instead of slowing the request down.
//
// Recording is optional. Without a database, NopRecorder is used and the
// GET /misses admin route is not mounted.
package misses
