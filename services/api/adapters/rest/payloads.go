package rest

import "time"

type RegisterIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
}

// CreateTaskIn deliberately has no owner field: the owner is always the
// verified identity of the request, never client input.
type CreateTaskIn struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type PatchTaskIn struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type CreateTagIn struct {
	Name string `json:"name"`
}

type ChatIn struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}
