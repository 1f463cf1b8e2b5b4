// Package integrity checks that a build output directory can be served as
// expected.
//
// # Checks Provided
//
//   - Structure: the root index document exists; a missing 404 document is reported but not fatal.
//   - Symlinks: links below the root that escape it, dangle, or loop.
//   - Directories: directories without an index document, which only ever answer 404.
//   - Flat pages: with flat URLs, pages such as about.html next to an about/ directory.
//   - Database: the misses table has every expected column (when recording is enabled).
//
// # HTTP Endpoints
//
// Mounted under the admin prefix:
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs the structure check.
//   - GET /integrity/symlinks : Runs the symlink check.
//   - GET /integrity/directories : Runs the directory and flat page checks.
//   - GET /integrity/database : Runs the schema check.
package integrity
