package checks

import (
	"context"
	"io/fs"
	"path/filepath"
)

// walk visits every entry below root, stopping when ctx is done. fn receives
// the slash-separated path relative to root.
func walk(ctx context.Context, root string, fn func(rel, name string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, name)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), name, d)
	})
}
