package checks

import (
	"context"
	"io/fs"
	"path/filepath"
)

// CheckDirectories lists directories without an index document. With
// directory-style URLs they can only ever answer 404. Directories reached
// through symlinks are not followed.
func CheckDirectories(ctx context.Context, root, index string) ([]string, error) {
	dirs := []string{}
	err := walk(ctx, root, func(rel, name string, d fs.DirEntry) error {
		if !d.IsDir() {
			return nil
		}
		ok, err := regularFile(filepath.Join(name, index))
		if err != nil {
			return err
		}
		if !ok {
			dirs = append(dirs, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
