package misses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists misses.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the misses table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Miss{}); err != nil {
		return fmt.Errorf("failed to migrate misses table: %w", err)
	}
	return nil
}

// Record inserts path or increments its hit count.
func (s *Store) Record(ctx context.Context, path, kind string) error {
	now := s.now().UTC()
	m := Miss{
		Path:      truncate(path),
		Kind:      kind,
		Hits:      1,
		FirstSeen: now,
		LastSeen:  now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "path"}},
		DoUpdates: clause.Assignments(map[string]any{
			"hits":      gorm.Expr("hits + 1"),
			"kind":      kind,
			"last_seen": now,
		}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to record miss %s: %w", m.Path, err)
	}
	return nil
}

// Top returns the most frequent misses, most hits first.
func (s *Store) Top(ctx context.Context, limit int) ([]Miss, error) {
	var out []Miss
	err := s.db.WithContext(ctx).
		Order("hits DESC").
		Order("path ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list misses: %w", err)
	}
	return out, nil
}

func truncate(path string) string {
	if len(path) <= MaxPathLength {
		return path
	}
	return strings.ToValidUTF8(path[:MaxPathLength], "")
}
