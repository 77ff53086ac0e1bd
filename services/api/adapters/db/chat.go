package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-chatbot-backend/services/api/core"
)

// Conversations and messages. Messages are append-only; ordering is by
// creation time with id as a tiebreaker.

func (db *DB) CreateConversation(ctx context.Context, userID int64) (core.Conversation, error) {
	const q = `
		INSERT INTO conversations(user_id)
		VALUES ($1)
		RETURNING id, user_id, created_at, updated_at;
	`

	var c core.Conversation
	if err := db.conn.GetContext(ctx, &c, q, userID); err != nil {
		if isForeignKeyViolation(err) {
			return core.Conversation{}, core.ErrNotFound
		}
		return core.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return c, nil
}

func (db *DB) GetConversation(ctx context.Context, userID, id int64) (core.Conversation, error) {
	const q = `SELECT id, user_id, created_at, updated_at FROM conversations WHERE id = $1 AND user_id = $2`

	var c core.Conversation
	if err := db.conn.GetContext(ctx, &c, q, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Conversation{}, core.ErrNotFound
		}
		return core.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

func (db *DB) ListConversations(ctx context.Context, userID int64) ([]core.Conversation, error) {
	const q = `SELECT id, user_id, created_at, updated_at FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`

	var out []core.Conversation
	if err := db.conn.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return out, nil
}

func (db *DB) TouchConversation(ctx context.Context, userID, id int64) error {
	const q = `UPDATE conversations SET updated_at = now() WHERE id = $1 AND user_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrNotFound
	}
	return nil
}

// AddMessage appends to a conversation the user owns; the ownership join is
// part of the INSERT.
func (db *DB) AddMessage(ctx context.Context, userID, conversationID int64, role, content string) (core.Message, error) {
	const q = `
		INSERT INTO messages(conversation_id, user_id, role, content)
		SELECT c.id, c.user_id, $3, $4
		FROM conversations c
		WHERE c.id = $1 AND c.user_id = $2
		RETURNING id, conversation_id, user_id, role, content, created_at;
	`

	var m core.Message
	if err := db.conn.GetContext(ctx, &m, q, conversationID, userID, role, content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Message{}, core.ErrNotFound
		}
		if isCheckViolation(err) {
			return core.Message{}, core.ErrInvalidArgs
		}
		return core.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

func (db *DB) ListMessages(ctx context.Context, userID, conversationID int64, limit int) ([]core.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
		SELECT m.id, m.conversation_id, m.user_id, m.role, m.content, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.id = $1 AND c.user_id = $2
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $3;
	`

	var out []core.Message
	if err := db.conn.SelectContext(ctx, &out, q, conversationID, userID, limit); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}
