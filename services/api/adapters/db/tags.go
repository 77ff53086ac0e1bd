package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-chatbot-backend/services/api/core"
)

// Tags. Association rows cascade with their task or tag.

func (db *DB) CreateTag(ctx context.Context, userID int64, name string) (core.Tag, error) {
	const q = `
		INSERT INTO tags(user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at;
	`

	var t core.Tag
	if err := db.conn.GetContext(ctx, &t, q, userID, name); err != nil {
		if isUniqueViolation(err) {
			return core.Tag{}, core.ErrAlreadyExists
		}
		return core.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	return t, nil
}

func (db *DB) ListTags(ctx context.Context, userID int64) ([]core.Tag, error) {
	const q = `SELECT id, user_id, name, created_at FROM tags WHERE user_id = $1 ORDER BY lower(name) ASC`

	var out []core.Tag
	if err := db.conn.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

func (db *DB) DeleteTag(ctx context.Context, userID, id int64) error {
	const q = `DELETE FROM tags WHERE id = $1 AND user_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrNotFound
	}
	return nil
}

// AttachTag inserts the association only when both the task and the tag
// belong to userID; the ownership predicate is part of the INSERT itself.
func (db *DB) AttachTag(ctx context.Context, userID, taskID, tagID int64) error {
	const q = `
		INSERT INTO task_tags(task_id, tag_id)
		SELECT t.id, g.id
		FROM tasks t
		JOIN tags g ON g.id = $3 AND g.user_id = $1
		WHERE t.id = $2 AND t.user_id = $1
		ON CONFLICT DO NOTHING;
	`

	res, err := db.conn.ExecContext(ctx, q, userID, taskID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		// either side missing/not owned, or the pair already attached
		if attached, err := db.tagAttached(ctx, userID, taskID, tagID); err == nil && attached {
			return nil
		}
		return core.ErrNotFound
	}
	return nil
}

func (db *DB) DetachTag(ctx context.Context, userID, taskID, tagID int64) error {
	const q = `
		DELETE FROM task_tags tt
		USING tasks t
		WHERE tt.task_id = t.id AND t.id = $2 AND t.user_id = $1 AND tt.tag_id = $3;
	`

	res, err := db.conn.ExecContext(ctx, q, userID, taskID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (db *DB) ListTaskTags(ctx context.Context, userID, taskID int64) ([]core.Tag, error) {
	const q = `
		SELECT g.id, g.user_id, g.name, g.created_at
		FROM tags g
		JOIN task_tags tt ON tt.tag_id = g.id
		JOIN tasks t ON t.id = tt.task_id
		WHERE t.id = $2 AND t.user_id = $1
		ORDER BY lower(g.name) ASC;
	`

	var out []core.Tag
	if err := db.conn.SelectContext(ctx, &out, q, userID, taskID); err != nil {
		return nil, fmt.Errorf("list task tags: %w", err)
	}
	return out, nil
}

func (db *DB) tagAttached(ctx context.Context, userID, taskID, tagID int64) (bool, error) {
	const q = `
		SELECT 1
		FROM task_tags tt
		JOIN tasks t ON t.id = tt.task_id
		WHERE t.id = $2 AND t.user_id = $1 AND tt.tag_id = $3;
	`

	var one int
	if err := db.conn.GetContext(ctx, &one, q, userID, taskID, tagID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
