package checks

import (
	"fmt"

	"binserve/core/database"

	"gorm.io/gorm"
)

// DatabaseReport describes the schema of a table used by binserve.
type DatabaseReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
}

// CheckDatabase compares the live columns of table with the expected ones.
func CheckDatabase(db *gorm.DB, table string, expected []string) (*DatabaseReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	missing, err := database.MissingColumns(db, table, expected)
	if err != nil {
		return nil, err
	}
	if missing == nil {
		missing = []string{}
	}
	return &DatabaseReport{
		Table:          table,
		Matched:        len(missing) == 0,
		MissingColumns: missing,
	}, nil
}
