package resolver

// Config holds the site settings consumed by the Resolver.
type Config struct {
	// Root is the directory holding the generator's build output.
	Root string `mapstructure:"root" default:""`
	// Generator optionally names the site generator (astro, eleventy, gatsby,
	// nextjs, vite). It is only used to pick a default Root.
	Generator string `mapstructure:"generator" default:""`
	// BasePath is the URL prefix the site is mounted under (e.g. /my-app).
	BasePath string `mapstructure:"base_path" default:""`
	// DirectoryFormat selects directory-style URLs (/about/ -> about/index.html).
	// When false, /about is served from about.html.
	DirectoryFormat bool `mapstructure:"directory_format" default:"true"`
	// IndexFile is the directory index document.
	IndexFile string `mapstructure:"index_file" default:"index.html"`
	// NotFoundFile is the 404 document at the top of Root.
	NotFoundFile string `mapstructure:"not_found_file" default:"404.html"`
}

// Default limits applied to untrusted request paths.
const (
	MaxPathLength    = 2048
	MaxSegmentLength = 255
)

const (
	DefaultIndexFile    = "index.html"
	DefaultNotFoundFile = "404.html"
)
