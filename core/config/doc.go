// Package config provides configuration management for binserve.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional binserve.yaml file and a .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, admin API key, timeouts, redirect status
//   - Site: serve root, generator preset, base path, directory format, index and 404 names
//   - Cache: filesystem metadata cache TTL, worker bound and watch toggle
//   - Log: Logging level and format
//   - Database: optional miss recording (MySQL or SQLite)
//   - Storage: S3/MinIO bucket used by the deploy commands
//
// Environment variables map onto nested keys: SITE_ROOT sets site.root and
// SERVER_API_KEY sets server.api_key.
//
// # Generator Presets
//
// Setting site.generator (astro, eleventy, gatsby, nextjs, vite) fills
// site.root with the generator's default output directory when it is empty.
// The resolver never sees the generator name.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Root)
package config
