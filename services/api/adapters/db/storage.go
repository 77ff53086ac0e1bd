package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"todo-chatbot-backend/services/api/core"
)

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {
	db, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: db}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users

func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (core.User, error) {
	const q = `
		INSERT INTO users(email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, is_active, created_at, updated_at;
	`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, email, passwordHash); err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrAlreadyExists
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (core.User, error) {
	const q = `SELECT id, email, password_hash, is_active, created_at, updated_at FROM users WHERE id = $1`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	const q = `SELECT id, email, password_hash, is_active, created_at, updated_at FROM users WHERE email = $1`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrNotFound
		}
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Tasks
//
// Every statement carries the user_id predicate. A task that exists but
// belongs to someone else is indistinguishable from one that does not exist.

const taskColumns = `id, user_id, title, COALESCE(description, '') AS description, completed, due_date, created_at, updated_at`

func (db *DB) CreateTask(ctx context.Context, userID int64, title, description string, dueDate *time.Time) (core.Task, error) {
	const q = `
		INSERT INTO tasks(user_id, title, description, due_date)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING ` + taskColumns + `;
	`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, userID, title, description, dueDate); err != nil {
		if isForeignKeyViolation(err) {
			return core.Task{}, core.ErrNotFound
		}
		if isCheckViolation(err) {
			return core.Task{}, core.ErrInvalidArgs
		}
		return core.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (db *DB) GetTask(ctx context.Context, userID, id int64) (core.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (db *DB) ListTasks(ctx context.Context, userID int64, f core.ListTasksFilter) ([]core.Task, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args = append(args, userID)

	switch f.Status {
	case core.StatusPending:
		sb.WriteString(" AND completed = FALSE")
	case core.StatusCompleted:
		sb.WriteString(" AND completed = TRUE")
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		sb.WriteString(fmt.Sprintf(" AND title ILIKE $%d", len(args)))
	}

	switch f.Sort {
	case core.SortDueDate:
		sb.WriteString(" ORDER BY due_date ASC NULLS LAST, id ASC")
	case core.SortTitle:
		sb.WriteString(" ORDER BY lower(title) ASC, id ASC")
	default:
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
	}

	args = append(args, f.Limit, f.Offset)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)))

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (db *DB) UpdateTask(ctx context.Context, userID int64, t core.Task) (core.Task, error) {
	const q = `
		UPDATE tasks
		SET title = $3,
		    description = NULLIF($4, ''),
		    completed = $5,
		    due_date = $6,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns + `;
	`

	var out core.Task
	err := db.conn.GetContext(ctx, &out, q, t.ID, userID, t.Title, t.Description, t.Completed, t.DueDate)
	if err != nil {
		if isCheckViolation(err) {
			return core.Task{}, core.ErrInvalidArgs
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrNotFound
		}
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	return out, nil
}

func (db *DB) ToggleTask(ctx context.Context, userID, id int64) (core.Task, error) {
	const q = `
		UPDATE tasks
		SET completed = NOT completed,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns + `;
	`

	var out core.Task
	if err := db.conn.GetContext(ctx, &out, q, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrNotFound
		}
		return core.Task{}, fmt.Errorf("toggle task: %w", err)
	}
	return out, nil
}

func (db *DB) DeleteTask(ctx context.Context, userID, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrNotFound
	}
	return nil
}

// pg helpers

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
