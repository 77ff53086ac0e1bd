package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const historyLimit = 50

// fallbackReply is returned when the agent is unreachable or errors out.
// The chat relay degrades instead of surfacing a 500 for provider hiccups.
const fallbackReply = "Sorry, I encountered an error processing your request. Please try again."

type ChatResult struct {
	ConversationID int64  `json:"conversation_id"`
	Response       string `json:"response"`
}

// Chat relays one user message through the agent. State lives entirely in the
// database: the conversation is loaded (or created), the user turn persisted,
// tool calls executed under the caller's identity, and the assistant turn
// persisted before returning.
func (s *Service) Chat(ctx context.Context, userID int64, conversationID *int64, message string) (ChatResult, error) {
	message = strings.TrimSpace(message)
	if userID <= 0 || message == "" {
		return ChatResult{}, ErrInvalidArgs
	}
	if s.agent == nil {
		return ChatResult{}, fmt.Errorf("chat relay not configured")
	}

	var (
		conv Conversation
		err  error
	)
	if conversationID != nil {
		conv, err = s.db.GetConversation(ctx, userID, *conversationID)
	} else {
		conv, err = s.db.CreateConversation(ctx, userID)
	}
	if err != nil {
		return ChatResult{}, err
	}

	if _, err := s.db.AddMessage(ctx, userID, conv.ID, RoleUser, message); err != nil {
		return ChatResult{}, err
	}

	history, err := s.db.ListMessages(ctx, userID, conv.ID, historyLimit)
	if err != nil {
		return ChatResult{}, err
	}
	turns := make([]AgentMessage, 0, len(history))
	for _, m := range history {
		turns = append(turns, AgentMessage{Role: m.Role, Content: m.Content})
	}

	content := fallbackReply
	reply, err := s.agent.Complete(ctx, turns, taskToolSpecs())
	switch {
	case err != nil:
		// degraded reply already set
	case len(reply.ToolCalls) > 0:
		results := s.executeToolCalls(ctx, userID, reply.ToolCalls)
		content = "I've processed your request. " + strings.Join(results, "; ")
	case reply.Content != "":
		content = reply.Content
	default:
		content = "I'm here to help with your tasks!"
	}

	if _, err := s.db.AddMessage(ctx, userID, conv.ID, RoleAssistant, content); err != nil {
		return ChatResult{}, err
	}
	if err := s.db.TouchConversation(ctx, userID, conv.ID); err != nil {
		return ChatResult{}, err
	}

	return ChatResult{ConversationID: conv.ID, Response: content}, nil
}

func (s *Service) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	if userID <= 0 {
		return nil, ErrInvalidArgs
	}
	return s.db.ListConversations(ctx, userID)
}

func (s *Service) ConversationHistory(ctx context.Context, userID, conversationID int64) ([]Message, error) {
	if userID <= 0 || conversationID <= 0 {
		return nil, ErrInvalidArgs
	}
	if _, err := s.db.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.db.ListMessages(ctx, userID, conversationID, historyLimit)
}

// executeToolCalls runs each requested tool under the authenticated user's
// identity. Any user identifier the model emits in the arguments is ignored.
func (s *Service) executeToolCalls(ctx context.Context, userID int64, calls []ToolCall) []string {
	results := make([]string, 0, len(calls))
	for _, call := range calls {
		results = append(results, s.executeToolCall(ctx, userID, call))
	}
	return results
}

func (s *Service) executeToolCall(ctx context.Context, userID int64, call ToolCall) string {
	switch call.Name {
	case "add_task":
		t, err := s.CreateTask(ctx, userID, argString(call.Args, "title"), argString(call.Args, "description"), nil)
		if err != nil {
			return fmt.Sprintf("Error executing add_task: %v", err)
		}
		return fmt.Sprintf("Added task: %s", t.Title)

	case "list_tasks":
		f := ListTasksFilter{Status: StatusAll}
		switch argString(call.Args, "status") {
		case "pending":
			f.Status = StatusPending
		case "completed":
			f.Status = StatusCompleted
		}
		tasks, err := s.ListTasks(ctx, userID, f)
		if err != nil {
			return fmt.Sprintf("Error executing list_tasks: %v", err)
		}
		return fmt.Sprintf("Found %d tasks", len(tasks))

	case "complete_task":
		id, ok := argInt64(call.Args, "task_id")
		if !ok {
			return "Error executing complete_task: task_id is required"
		}
		t, err := s.ToggleTask(ctx, userID, id)
		if err != nil {
			return fmt.Sprintf("Error executing complete_task: %v", err)
		}
		return fmt.Sprintf("Completed task: %s", t.Title)

	case "delete_task":
		id, err := s.resolveTaskID(ctx, userID, call.Args, "title")
		if err != nil {
			return fmt.Sprintf("Error executing delete_task: %v", err)
		}
		if err := s.DeleteTask(ctx, userID, id); err != nil {
			return fmt.Sprintf("Error executing delete_task: %v", err)
		}
		return fmt.Sprintf("Deleted task ID: %d", id)

	case "update_task":
		id, err := s.resolveTaskID(ctx, userID, call.Args, "title_to_find")
		if err != nil {
			return fmt.Sprintf("Error executing update_task: %v", err)
		}
		var p TaskPatch
		if v := argString(call.Args, "title"); v != "" {
			p.Title = &v
		}
		if v, ok := call.Args["description"].(string); ok {
			p.Description = &v
		}
		t, err := s.PatchTask(ctx, userID, id, p)
		if err != nil {
			return fmt.Sprintf("Error executing update_task: %v", err)
		}
		return fmt.Sprintf("Updated task: %s", t.Title)

	default:
		return fmt.Sprintf("Unknown function: %s", call.Name)
	}
}

// resolveTaskID accepts either a task_id argument or a task title under
// titleKey and resolves it to an owned task id.
func (s *Service) resolveTaskID(ctx context.Context, userID int64, args map[string]any, titleKey string) (int64, error) {
	if id, ok := argInt64(args, "task_id"); ok {
		return id, nil
	}
	title := strings.TrimSpace(argString(args, titleKey))
	if title == "" {
		return 0, fmt.Errorf("task_id or %s is required", titleKey)
	}
	tasks, err := s.db.ListTasks(ctx, userID, ListTasksFilter{Status: StatusAll})
	if err != nil {
		return 0, err
	}
	for _, t := range tasks {
		if strings.EqualFold(t.Title, title) {
			return t.ID, nil
		}
	}
	return 0, ErrNotFound
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argInt64(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// taskToolSpecs is the function-calling surface offered to the agent. The
// schemas deliberately carry no user identifier: identity always comes from
// the verified credential of the request being relayed.
func taskToolSpecs() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "add_task",
			Description: "Create a new task",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "The title of the task"},
					"description": {"type": "string", "description": "The description of the task (optional)"}
				},
				"required": ["title"]
			}`),
		},
		{
			Name:        "list_tasks",
			Description: "Retrieve tasks from the list",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"status": {"type": "string", "enum": ["all", "pending", "completed"], "description": "Filter tasks by status (optional, defaults to 'all')"}
				}
			}`),
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as complete",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "The ID of the task to mark as complete"}
				},
				"required": ["task_id"]
			}`),
		},
		{
			Name:        "delete_task",
			Description: "Remove a task from the list",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "The ID of the task to delete (optional if title is provided)"},
					"title": {"type": "string", "description": "The title of the task to delete (optional if task_id is provided)"}
				}
			}`),
		},
		{
			Name:        "update_task",
			Description: "Modify task title or description",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "The ID of the task to update (optional if title_to_find is provided)"},
					"title_to_find": {"type": "string", "description": "The title of the task to update (optional if task_id is provided)"},
					"title": {"type": "string", "description": "The new title"},
					"description": {"type": "string", "description": "The new description"}
				}
			}`),
		},
	}
}
