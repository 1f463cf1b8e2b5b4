package config

import (
	"fmt"
	"sort"
	"strings"
)

// outputDirs maps site generators to the directory their static build is
// written to by default.
var outputDirs = map[string]string{
	"astro":    "dist",
	"eleventy": "_site",
	"gatsby":   "public",
	"nextjs":   "out",
	"vite":     "dist",
}

// OutputDir returns the default build output directory of a generator.
func OutputDir(generator string) (string, error) {
	dir, ok := outputDirs[strings.ToLower(strings.TrimSpace(generator))]
	if !ok {
		return "", fmt.Errorf("unknown site.generator %q (supported: %s)", generator, strings.Join(Generators(), ", "))
	}
	return dir, nil
}

// Generators lists the supported generator presets.
func Generators() []string {
	names := make([]string, 0, len(outputDirs))
	for name := range outputDirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
