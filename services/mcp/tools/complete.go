package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"todo-chatbot-backend/services/api/core"
)

// CompleteTaskTool handles the complete_task MCP tool.
type CompleteTaskTool struct {
	svc *core.Service
}

func NewCompleteTaskTool(svc *core.Service) *CompleteTaskTool {
	return &CompleteTaskTool{svc: svc}
}

func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as complete"),
		userIDParam(),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to mark as complete"),
		),
	)
}

func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, ok := parseUserID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	id, ok := taskID(req)
	if !ok {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	task, err := t.svc.ToggleTask(ctx, userID, id)
	if err != nil {
		return errResult("failed to complete task", err), nil
	}

	state := "pending again"
	if task.Completed {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task #%d (%s) is now %s", task.ID, task.Title, state)), nil
}
