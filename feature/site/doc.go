// Package site serves the build output of a static site generator.
//
// It mounts a catch-all Fiber handler that hands the raw request path to the
// resolver and turns the outcome into a response:
//
//   - File: 200 with the file streamed from disk and a MIME type from its extension.
//   - File needing a redirect: 301 (or 308) to the trailing-slash URL, query preserved.
//   - NotFound: 404 with the site's 404 document, or a built-in page.
//   - Invalid: 400, or the 404 response when server.disguise_invalid is set.
//   - Resolver error: 500 with a generic page; details go to the log only.
//
// Only GET and HEAD are served. NotFound and Invalid outcomes are reported to a
// Recorder (see feature/misses).
package site
