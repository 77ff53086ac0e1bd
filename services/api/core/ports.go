package core

import (
	"context"
	"encoding/json"
	"time"
)

// DB is the storage port. Every task/tag/conversation method takes the owner's
// userID and implementations must apply it as part of the query predicate, not
// as an after-the-fact check.
type DB interface {
	Ping(ctx context.Context) error

	// users
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// tasks
	CreateTask(ctx context.Context, userID int64, title, description string, dueDate *time.Time) (Task, error)
	GetTask(ctx context.Context, userID, id int64) (Task, error)
	ListTasks(ctx context.Context, userID int64, f ListTasksFilter) ([]Task, error)
	UpdateTask(ctx context.Context, userID int64, t Task) (Task, error)
	ToggleTask(ctx context.Context, userID, id int64) (Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error

	// tags
	CreateTag(ctx context.Context, userID int64, name string) (Tag, error)
	ListTags(ctx context.Context, userID int64) ([]Tag, error)
	DeleteTag(ctx context.Context, userID, id int64) error
	AttachTag(ctx context.Context, userID, taskID, tagID int64) error
	DetachTag(ctx context.Context, userID, taskID, tagID int64) error
	ListTaskTags(ctx context.Context, userID, taskID int64) ([]Tag, error)

	// conversations
	CreateConversation(ctx context.Context, userID int64) (Conversation, error)
	GetConversation(ctx context.Context, userID, id int64) (Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]Conversation, error)
	TouchConversation(ctx context.Context, userID, id int64) error
	AddMessage(ctx context.Context, userID, conversationID int64, role, content string) (Message, error)
	ListMessages(ctx context.Context, userID, conversationID int64, limit int) ([]Message, error)
}

// AgentMessage is one turn of conversation context sent to the model.
type AgentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolSpec describes a callable tool in the provider's function-calling format.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// AgentReply is either plain content, or one or more tool calls to execute.
type AgentReply struct {
	Content   string
	ToolCalls []ToolCall
}

// Agent is the LLM port used by the chat relay.
type Agent interface {
	Complete(ctx context.Context, history []AgentMessage, tools []ToolSpec) (AgentReply, error)
}
