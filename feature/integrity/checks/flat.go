package checks

import (
	"context"
	"io/fs"
	"os"
	"strings"
)

// CheckFlatPages lists .html pages that share their name with a directory.
// With flat URLs, /about serves about.html while /about/ serves
// about/index.html, which is rarely intended.
func CheckFlatPages(ctx context.Context, root string) ([]string, error) {
	pages := []string{}
	err := walk(ctx, root, func(rel, name string, d fs.DirEntry) error {
		if d.IsDir() || !strings.HasSuffix(name, ".html") {
			return nil
		}
		info, err := os.Stat(strings.TrimSuffix(name, ".html"))
		if err != nil {
			return nil
		}
		if info.IsDir() {
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}
