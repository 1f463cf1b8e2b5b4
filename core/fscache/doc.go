// Package fscache caches filesystem metadata lookups for the resolver.
//
// Under load, the same handful of paths (/, /index.html, assets) are resolved
// thousands of times a second. Cache implements resolver.FS and keeps stat
// and symlink-evaluation results for a short TTL so most requests resolve
// without touching the kernel.
//
// # Consistency
//
// Entries expire after Config.TTL. A Watcher (fsnotify) drops the whole cache
// as soon as anything under the serve root changes, which keeps deploys
// visible immediately. Symlink ancestry is still checked by the resolver on
// every request against the cached canonical path.
//
// # Usage
//
//	cache := fscache.New(nil, cfg.Cache)
//	r, err := resolver.New(cfg.Site, cache)
//
//	w, err := fscache.NewWatcher(r.Root(), cache, logger)
//	go w.Run(ctx)
package fscache
