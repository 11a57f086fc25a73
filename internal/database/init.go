package database

import (
	"database/sql"
	"fmt"

	"github.com/sendcycle/sendcycle/internal/database/schema"
)

// EnsureSchema creates all necessary database tables if they don't exist
func EnsureSchema(db *sql.DB) error {
	for _, query := range schema.TableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
