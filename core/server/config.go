package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey protects the admin API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// Admin mounts the admin API under AdminPrefix.
	Admin bool `mapstructure:"admin" default:"true"`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"15"`
	// WriteTimeoutSeconds bounds writing a response.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"60"`
	// RedirectStatus is the status used for trailing-slash redirects (301 or 308).
	RedirectStatus int `mapstructure:"redirect_status" default:"301"`
	// DisguiseInvalid answers rejected paths with the 404 page instead of a 400.
	DisguiseInvalid bool `mapstructure:"disguise_invalid" default:"false"`
	// CacheControl is sent with every file response. Empty omits the header.
	CacheControl string `mapstructure:"cache_control" default:"public, max-age=0, must-revalidate"`
}

// AdminPrefix is the URL prefix of the admin API.
const AdminPrefix = "/_binserve"

const (
	RedirectPermanent = 301
	RedirectKeep      = 308
)

// IsValidRedirectStatus checks if the configured redirect status is supported.
func (c Config) IsValidRedirectStatus() bool {
	switch c.RedirectStatus {
	case RedirectPermanent, RedirectKeep:
		return true
	default:
		return false
	}
}

// ReadTimeout returns the request read timeout.
func (c Config) ReadTimeout() time.Duration {
	return seconds(c.ReadTimeoutSeconds, 15)
}

// WriteTimeout returns the response write timeout.
func (c Config) WriteTimeout() time.Duration {
	return seconds(c.WriteTimeoutSeconds, 60)
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
