package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Resolver maps untrusted URL paths onto files below a canonical serve root.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fs        FS
	root      string
	rootSlash string
	basePath  string
	dirFormat bool
	index     string
	notFound  string
}

// New validates cfg and returns a Resolver. fsys may be nil, in which case
// lookups go straight to the operating system.
func New(cfg Config, fsys FS) (*Resolver, error) {
	if fsys == nil {
		fsys = OSFS{}
	}

	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrRootNotDirectory)
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve serve root %s: %w", cfg.Root, err)
	}
	root, err := fsys.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize serve root %s: %w", abs, err)
	}
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat serve root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	basePath, err := NormalizeBasePath(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	index := cfg.IndexFile
	if index == "" {
		index = DefaultIndexFile
	}
	notFound := cfg.NotFoundFile
	if notFound == "" {
		notFound = DefaultNotFoundFile
	}
	for _, name := range []string{index, notFound} {
		if err := checkFileName(name); err != nil {
			return nil, err
		}
	}

	rootSlash := root
	if !strings.HasSuffix(rootSlash, string(filepath.Separator)) {
		rootSlash += string(filepath.Separator)
	}

	return &Resolver{
		fs:        fsys,
		root:      root,
		rootSlash: rootSlash,
		basePath:  basePath,
		dirFormat: cfg.DirectoryFormat,
		index:     index,
		notFound:  notFound,
	}, nil
}

func checkFileName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return nil
}

// Root returns the canonical serve root.
func (r *Resolver) Root() string { return r.root }

// BasePath returns the normalized base path ("" when root-mounted).
func (r *Resolver) BasePath() string { return r.basePath }

// DirectoryFormat reports whether directory-style URLs are in effect.
func (r *Resolver) DirectoryFormat() bool { return r.dirFormat }

// IndexFile returns the directory index document name.
func (r *Resolver) IndexFile() string { return r.index }

// NotFoundFile returns the 404 document name.
func (r *Resolver) NotFoundFile() string { return r.notFound }

// Resolve maps a raw, still percent-encoded request path (query and fragment
// removed) to a Target. A non-nil error is always an infrastructure fault
// wrapping ErrFilesystem; client mistakes and absent files are reported
// through the Target.
func (r *Resolver) Resolve(rawPath string) (Target, error) {
	req, reason, ok := parse(rawPath, r.basePath)
	if reason != "" {
		return Invalid(reason), nil
	}
	if !ok {
		// Paths outside the base path are answered as plain 404s so the
		// mount point is not disclosed.
		return r.NotFoundTarget()
	}
	return r.lookup(req)
}

func (r *Resolver) lookup(req request) (Target, error) {
	name := r.join(req.rel)

	real, info, err := r.stat(name)
	if err != nil && !errors.Is(err, errMissing) {
		return r.fail(err)
	}
	if err == nil && info.Mode().IsRegular() {
		return File(real, false), nil
	}

	// File-based routing: /about is about.html, even when an about/
	// directory exists for nested pages.
	if !r.dirFormat && req.rel != "" && !req.trailing {
		if t, ok, err := r.flat(name); err != nil || ok {
			return t, err
		}
	}

	if err != nil || !info.IsDir() {
		// Missing, or a device, socket or pipe, which are never served.
		return r.NotFoundTarget()
	}

	index, info, err := r.stat(filepath.Join(real, r.index))
	if errors.Is(err, errMissing) {
		return r.NotFoundTarget()
	}
	if err != nil {
		return r.fail(err)
	}
	if !info.Mode().IsRegular() {
		return r.NotFoundTarget()
	}

	if !req.trailing {
		t := File(index, true)
		t.Location = location(r.basePath, req.rel)
		return t, nil
	}
	return File(index, false), nil
}

// flat looks for <name>.html. ok is false when no such file exists.
func (r *Resolver) flat(name string) (Target, bool, error) {
	real, info, err := r.stat(name + ".html")
	if errors.Is(err, errMissing) {
		return Target{}, false, nil
	}
	if err != nil {
		t, err := r.fail(err)
		return t, true, err
	}
	if !info.Mode().IsRegular() {
		return Target{}, false, nil
	}
	return File(real, false), true, nil
}

// NotFoundTarget returns a NotFound target carrying the 404 document when one
// exists inside the serve root.
func (r *Resolver) NotFoundTarget() (Target, error) {
	doc, info, err := r.stat(filepath.Join(r.root, r.notFound))
	switch {
	case err == nil && info.Mode().IsRegular():
		return NotFound(doc), nil
	case err == nil,
		errors.Is(err, errMissing),
		errors.Is(err, errEscape),
		errors.Is(err, errLoop):
		return NotFound(""), nil
	default:
		return Target{}, err
	}
}

func (r *Resolver) fail(err error) (Target, error) {
	switch {
	case errors.Is(err, errEscape):
		return Invalid(ReasonEscape), nil
	case errors.Is(err, errLoop):
		return Invalid(ReasonLoop), nil
	default:
		return Target{}, err
	}
}

// stat canonicalizes name, checks that it stays inside the serve root and
// returns its file info. Ancestry is checked on every call since files and
// links may change after startup.
func (r *Resolver) stat(name string) (string, fs.FileInfo, error) {
	real, err := r.fs.EvalSymlinks(name)
	if err != nil {
		return "", nil, classify(name, err)
	}
	if !r.contains(real) {
		return "", nil, errEscape
	}
	info, err := r.fs.Stat(real)
	if err != nil {
		return "", nil, classify(real, err)
	}
	return real, info, nil
}

func (r *Resolver) contains(p string) bool {
	return p == r.root || strings.HasPrefix(p, r.rootSlash)
}

func (r *Resolver) join(rel string) string {
	if rel == "" {
		return r.root
	}
	return filepath.Join(r.root, filepath.FromSlash(rel))
}
