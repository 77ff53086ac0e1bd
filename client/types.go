// Package client is the Go client for the todo API: a bearer-authenticated
// HTTP client plus an optimistic in-memory mirror of the user's task list.
package client

import "time"

// Task is the client-side snapshot of a server task. tempID is set only on
// rows created optimistically and not yet confirmed by the server.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	tempID string
}

// Pending marks a row awaiting server confirmation.
func (t Task) Pending() bool {
	return t.tempID != ""
}

// TaskPatch is a sparse update; only non-nil fields are sent.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}
