package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"binserve/core/database"
	"binserve/core/fscache"
	"binserve/core/logger"
	"binserve/core/resolver"
	"binserve/core/server"
	"binserve/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Site holds the serve root and URL conventions of the build output.
	Site resolver.Config `mapstructure:"site"`
	// Cache holds configuration for the filesystem metadata cache.
	Cache fscache.Config `mapstructure:"cache"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for miss recording.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage used by deploy.
	Storage storage.Config `mapstructure:"storage"`
}

// FileName is the optional config file looked up next to the .env file.
const FileName = "binserve"

// LoadConfig loads configuration from environment variables, an optional
// .env file and an optional binserve.yaml in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName(FileName)
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. SITE_BASE_PATH -> site.base_path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks settings that cannot be expressed as defaults and fills
// the serve root from the generator preset when it is not set.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if !c.Server.IsValidRedirectStatus() {
		return fmt.Errorf("server.redirect_status must be 301 or 308, got %d", c.Server.RedirectStatus)
	}

	if c.Site.Generator != "" {
		dir, err := OutputDir(c.Site.Generator)
		if err != nil {
			return err
		}
		if c.Site.Root == "" {
			c.Site.Root = dir
		}
	}
	if c.Site.Root == "" {
		return errors.New("site.root must be set (or site.generator to use its default output directory)")
	}

	base, err := resolver.NormalizeBasePath(c.Site.BasePath)
	if err != nil {
		return err
	}
	c.Site.BasePath = base
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
