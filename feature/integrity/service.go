package integrity

import (
	"context"

	"binserve/core/resolver"
	"binserve/feature/integrity/checks"
	"binserve/feature/misses"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report is the combined result of every check.
type Report struct {
	Healthy     bool                    `json:"healthy"`
	Structure   *checks.StructureReport `json:"structure,omitempty"`
	Symlinks    []checks.SymlinkIssue   `json:"symlinks"`
	Directories []string                `json:"directories"`
	FlatPages   []string                `json:"flat_pages,omitempty"`
	Database    *checks.DatabaseReport  `json:"database,omitempty"`
	Errors      []string                `json:"errors"`
}

// Service runs integrity checks against the serve root.
type Service struct {
	root      string
	index     string
	notFound  string
	dirFormat bool
	db        *gorm.DB
	logger    *zap.Logger
}

// NewService creates a new integrity service for the site served by r.
// db may be nil when miss recording is disabled.
func NewService(r *resolver.Resolver, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		root:      r.Root(),
		index:     r.IndexFile(),
		notFound:  r.NotFoundFile(),
		dirFormat: r.DirectoryFormat(),
		db:        db,
		logger:    logger,
	}
}

// CheckStructure reports the presence of the index and 404 documents.
func (s *Service) CheckStructure() (checks.StructureReport, error) {
	return checks.CheckStructure(s.root, s.index, s.notFound)
}

// CheckSymlinks lists symlinks the resolver will refuse to follow.
func (s *Service) CheckSymlinks(ctx context.Context) ([]checks.SymlinkIssue, error) {
	return checks.CheckSymlinks(ctx, s.root)
}

// CheckDirectories lists directories without an index document.
func (s *Service) CheckDirectories(ctx context.Context) ([]string, error) {
	return checks.CheckDirectories(ctx, s.root, s.index)
}

// CheckFlatPages lists flat pages colliding with a directory. It only
// applies when directory-style URLs are off.
func (s *Service) CheckFlatPages(ctx context.Context) ([]string, error) {
	if s.dirFormat {
		return []string{}, nil
	}
	return checks.CheckFlatPages(ctx, s.root)
}

// CheckDatabase verifies the schema of the misses table.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabase(s.db, misses.Miss{}.TableName(), misses.Columns)
}

// HasDatabase reports whether a database is attached.
func (s *Service) HasDatabase() bool {
	return s.db != nil
}

// Run performs every applicable check. Check failures are collected in the
// report instead of aborting the run.
func (s *Service) Run(ctx context.Context) *Report {
	report := &Report{
		Symlinks:    []checks.SymlinkIssue{},
		Directories: []string{},
		Errors:      []string{},
	}
	fail := func(check string, err error) {
		s.logger.Error("Integrity check failed", zap.String("check", check), zap.Error(err))
		report.Errors = append(report.Errors, check+": "+err.Error())
	}

	if structure, err := s.CheckStructure(); err != nil {
		fail("structure", err)
	} else {
		report.Structure = &structure
	}

	if issues, err := s.CheckSymlinks(ctx); err != nil {
		fail("symlinks", err)
	} else {
		report.Symlinks = issues
	}

	if dirs, err := s.CheckDirectories(ctx); err != nil {
		fail("directories", err)
	} else {
		report.Directories = dirs
	}

	if !s.dirFormat {
		if pages, err := s.CheckFlatPages(ctx); err != nil {
			fail("flat_pages", err)
		} else {
			report.FlatPages = pages
		}
	}

	if s.HasDatabase() {
		if db, err := s.CheckDatabase(); err != nil {
			fail("database", err)
		} else {
			report.Database = db
		}
	}

	report.Healthy = len(report.Errors) == 0 &&
		report.Structure != nil && report.Structure.Index &&
		len(report.Symlinks) == 0 &&
		(report.Database == nil || report.Database.Matched)
	return report
}
