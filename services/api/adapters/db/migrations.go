package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_tasks.up.sql
var createTasksUp string

//go:embed migrations/03_create_tags.up.sql
var createTagsUp string

//go:embed migrations/04_create_conversations.up.sql
var createConversationsUp string

// Migrate applies the schema. Statements are idempotent (IF NOT EXISTS) so a
// restart against an existing database is a no-op.
func (db *DB) Migrate() error {
	db.log.Debug("running migrations")

	steps := []struct {
		name string
		stmt string
	}{
		{"users", createUsersUp},
		{"tasks", createTasksUp},
		{"tags", createTagsUp},
		{"conversations", createConversationsUp},
	}
	for _, step := range steps {
		if _, err := db.conn.Exec(step.stmt); err != nil {
			return fmt.Errorf("apply %s migration: %w", step.name, err)
		}
	}

	db.log.Debug("migrations finished")
	return nil
}
