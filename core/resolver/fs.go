package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

var (
	// ErrFilesystem wraps infrastructure faults (permission denied, I/O errors).
	// Callers must answer these with a server error, never a 404.
	ErrFilesystem = errors.New("filesystem error")
	// ErrRootNotDirectory is returned by New when the serve root is not a directory.
	ErrRootNotDirectory = errors.New("serve root is not a directory")
	// ErrInvalidFileName is returned by New for index or 404 names that are not plain file names.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInvalidBasePath is returned for malformed base paths.
	ErrInvalidBasePath = errors.New("invalid base path")
	// ErrSymlinkLoop is reported by an FS when a path cannot be canonicalized
	// because its links form a cycle.
	ErrSymlinkLoop = errors.New("symlink loop")
)

// FS is the read-only metadata view of the filesystem used by the Resolver.
//
// Absent paths are reported with errors matching fs.ErrNotExist, and link
// cycles with errors matching ErrSymlinkLoop or syscall.ELOOP. Any other
// error is treated as an infrastructure fault.
type FS interface {
	// Stat returns file info, following symlinks.
	Stat(name string) (fs.FileInfo, error)
	// EvalSymlinks returns the path with all symlinks resolved.
	EvalSymlinks(name string) (string, error)
}

// OSFS performs lookups directly against the operating system.
type OSFS struct{}

// Stat calls os.Stat.
func (OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// tooManyLinks is the message filepath.EvalSymlinks uses for link cycles.
const tooManyLinks = "EvalSymlinks: too many links"

// EvalSymlinks calls filepath.EvalSymlinks, reporting link cycles as
// ErrSymlinkLoop.
func (OSFS) EvalSymlinks(name string) (string, error) {
	real, err := filepath.EvalSymlinks(name)
	if err != nil && err.Error() == tooManyLinks {
		return "", fmt.Errorf("%w: %s", ErrSymlinkLoop, name)
	}
	return real, err
}

var (
	errMissing = errors.New("missing")
	errEscape  = errors.New(ReasonEscape)
	errLoop    = errors.New(ReasonLoop)
)

// IsLoop reports whether err describes a symlink cycle.
func IsLoop(err error) bool {
	return errors.Is(err, ErrSymlinkLoop) || errors.Is(err, syscall.ELOOP)
}

// classify maps a lookup error onto the resolver's outcomes. Absent paths
// become errMissing; everything else that is not a client problem is an
// infrastructure fault.
func classify(name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ENAMETOOLONG):
		return errMissing
	case IsLoop(err):
		return errLoop
	}
	return fmt.Errorf("%w: %s: %w", ErrFilesystem, name, err)
}
