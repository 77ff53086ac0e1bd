package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"todo-chatbot-backend/services/api/core"
)

// DeleteTaskTool handles the delete_task MCP tool. The task may be addressed
// by id or by exact title.
type DeleteTaskTool struct {
	svc *core.Service
}

func NewDeleteTaskTool(svc *core.Service) *DeleteTaskTool {
	return &DeleteTaskTool{svc: svc}
}

func (t *DeleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Remove a task from the list"),
		userIDParam(),
		mcp.WithNumber("task_id",
			mcp.Description("The ID of the task to delete (optional if title is provided)"),
		),
		mcp.WithString("title",
			mcp.Description("The title of the task to delete (optional if task_id is provided)"),
		),
	)
}

func (t *DeleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, ok := parseUserID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	id, ok := taskID(req)
	if !ok {
		title := strings.TrimSpace(req.GetString("title", ""))
		if title == "" {
			return mcp.NewToolResultError("'task_id' or 'title' is required"), nil
		}
		found, err := t.findByTitle(ctx, userID, title)
		if err != nil {
			return errResult("failed to delete task", err), nil
		}
		id = found
	}

	if err := t.svc.DeleteTask(ctx, userID, id); err != nil {
		return errResult("failed to delete task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted task #%d", id)), nil
}

func (t *DeleteTaskTool) findByTitle(ctx context.Context, userID int64, title string) (int64, error) {
	tasks, err := t.svc.ListTasks(ctx, userID, core.ListTasksFilter{Status: core.StatusAll})
	if err != nil {
		return 0, err
	}
	for _, task := range tasks {
		if strings.EqualFold(task.Title, title) {
			return task.ID, nil
		}
	}
	return 0, errors.New("no task with that title")
}
