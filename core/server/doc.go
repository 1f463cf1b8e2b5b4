// Package server holds the HTTP server configuration and constants.
//
// While the start command handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the redirect status used for trailing-slash canonicalization.
//
// # Configuration
//
// The Config struct defines the HTTP port, admin API key, timeouts and how
// resolver outcomes are turned into responses (redirect status, disguised
// 400s, Cache-Control).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the site feature to shape responses.
package server
