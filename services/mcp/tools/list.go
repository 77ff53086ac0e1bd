package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"todo-chatbot-backend/services/api/core"
)

// ListTasksTool handles the list_tasks MCP tool.
type ListTasksTool struct {
	svc *core.Service
}

func NewListTasksTool(svc *core.Service) *ListTasksTool {
	return &ListTasksTool{svc: svc}
}

func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("Retrieve tasks from the list"),
		userIDParam(),
		mcp.WithString("status",
			mcp.Description("Filter tasks by status: all, pending or completed (defaults to all)"),
		),
	)
}

func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, ok := parseUserID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	f := core.ListTasksFilter{Status: core.StatusAll}
	switch strings.ToLower(req.GetString("status", "all")) {
	case "", "all":
	case "pending":
		f.Status = core.StatusPending
	case "completed":
		f.Status = core.StatusCompleted
	default:
		return mcp.NewToolResultError("'status' must be all, pending or completed"), nil
	}

	tasks, err := t.svc.ListTasks(ctx, userID, f)
	if err != nil {
		return errResult("failed to list tasks", err), nil
	}

	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d tasks:\n", len(tasks))
	for _, task := range tasks {
		sb.WriteString(taskLine(task))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
