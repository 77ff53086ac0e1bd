package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"todo-chatbot-backend/services/api/core"
)

// AddTaskTool handles the add_task MCP tool.
type AddTaskTool struct {
	svc *core.Service
}

func NewAddTaskTool(svc *core.Service) *AddTaskTool {
	return &AddTaskTool{svc: svc}
}

func (t *AddTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Create a new task"),
		userIDParam(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the task"),
		),
		mcp.WithString("description",
			mcp.Description("The description of the task (optional)"),
		),
	)
}

func (t *AddTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, ok := parseUserID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	title := req.GetString("title", "")
	description := req.GetString("description", "")

	task, err := t.svc.CreateTask(ctx, userID, title, description, nil)
	if err != nil {
		return errResult("failed to add task", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added task #%d: %s", task.ID, task.Title)), nil
}
