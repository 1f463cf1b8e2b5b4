package checks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"

	"binserve/core/resolver"
)

// Symlink problems.
const (
	ProblemEscape = "escape"
	ProblemBroken = "broken"
	ProblemLoop   = "loop"
)

// SymlinkIssue is a link below the root that the resolver will not follow.
type SymlinkIssue struct {
	Path    string `json:"path"`
	Target  string `json:"target,omitempty"`
	Problem string `json:"problem"`
}

// CheckSymlinks lists symlinks that resolve outside root, dangle, or loop.
// Requests through an escaping link are rejected; broken links read as 404.
func CheckSymlinks(ctx context.Context, root string) ([]SymlinkIssue, error) {
	issues := []SymlinkIssue{}
	prefix := root + string(filepath.Separator)

	err := walk(ctx, root, func(rel, name string, d fs.DirEntry) error {
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		real, err := resolver.OSFS{}.EvalSymlinks(name)
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
			issues = append(issues, SymlinkIssue{Path: rel, Problem: ProblemBroken})
		case resolver.IsLoop(err):
			issues = append(issues, SymlinkIssue{Path: rel, Problem: ProblemLoop})
		case err != nil:
			return fmt.Errorf("failed to evaluate %s: %w", rel, err)
		case real != root && !strings.HasPrefix(real, prefix):
			issues = append(issues, SymlinkIssue{Path: rel, Target: real, Problem: ProblemEscape})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
