package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"todo-chatbot-backend/services/api/core"
)

// UpdateTaskTool handles the update_task MCP tool. The task may be addressed
// by id or by exact title via title_to_find.
type UpdateTaskTool struct {
	svc *core.Service
}

func NewUpdateTaskTool(svc *core.Service) *UpdateTaskTool {
	return &UpdateTaskTool{svc: svc}
}

func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription("Modify task title or description"),
		userIDParam(),
		mcp.WithNumber("task_id",
			mcp.Description("The ID of the task to update (optional if title_to_find is provided)"),
		),
		mcp.WithString("title_to_find",
			mcp.Description("The title of the task to update (optional if task_id is provided)"),
		),
		mcp.WithString("title",
			mcp.Description("The new title"),
		),
		mcp.WithString("description",
			mcp.Description("The new description"),
		),
	)
}

func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, ok := parseUserID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	id, ok := taskID(req)
	if !ok {
		find := strings.TrimSpace(req.GetString("title_to_find", ""))
		if find == "" {
			return mcp.NewToolResultError("'task_id' or 'title_to_find' is required"), nil
		}
		found, err := t.findByTitle(ctx, userID, find)
		if err != nil {
			return errResult("failed to update task", err), nil
		}
		id = found
	}

	var p core.TaskPatch
	if v := req.GetString("title", ""); v != "" {
		p.Title = &v
	}
	if v := req.GetString("description", ""); v != "" {
		p.Description = &v
	}
	if p.Title == nil && p.Description == nil {
		return mcp.NewToolResultError("'title' or 'description' is required"), nil
	}

	task, err := t.svc.PatchTask(ctx, userID, id, p)
	if err != nil {
		return errResult("failed to update task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated task #%d: %s", task.ID, task.Title)), nil
}

func (t *UpdateTaskTool) findByTitle(ctx context.Context, userID int64, title string) (int64, error) {
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
