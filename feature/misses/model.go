package misses

import "time"

// Kinds of unresolved requests.
const (
	KindNotFound = "not_found"
	KindInvalid  = "invalid"
)

// MaxPathLength is the longest path stored. Longer paths are truncated so
// they still fit the unique index.
const MaxPathLength = 512

// Miss is one request path that did not resolve to a file.
type Miss struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"-"`
	Path      string    `gorm:"column:path;type:varchar(512);uniqueIndex;not null" json:"path"`
	Kind      string    `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	Hits      int64     `gorm:"column:hits;not null;default:0" json:"hits"`
	FirstSeen time.Time `gorm:"column:first_seen;not null" json:"first_seen"`
	LastSeen  time.Time `gorm:"column:last_seen;not null" json:"last_seen"`
}

func (Miss) TableName() string {
	return "misses"
}

// Columns lists the columns the misses table must have.
var Columns = []string{"id", "path", "kind", "hits", "first_seen", "last_seen"}
