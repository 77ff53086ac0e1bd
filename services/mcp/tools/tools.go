// Package tools exposes the task operations as MCP tools. Every tool takes a
// user_id argument and operates only on that user's rows; the underlying
// service applies the ownership predicate at the query level, so one user's
// tools can never observe or mutate another user's tasks.
package tools

import (
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"todo-chatbot-backend/services/api/core"
)

func parseUserID(req mcp.CallToolRequest) (int64, bool) {
	raw := strings.TrimSpace(req.GetString("user_id", ""))
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func taskID(req mcp.CallToolRequest) (int64, bool) {
	id := int64(req.GetInt("task_id", 0))
	return id, id > 0
}

func userIDParam() mcp.ToolOption {
	return mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("The ID of the user"),
	)
}

func errResult(op string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(op + ": " + err.Error())
}

func taskLine(t core.Task) string {
	status := "pending"
	if t.Completed {
		status = "completed"
	}
	line := "#" + strconv.FormatInt(t.ID, 10) + " [" + status + "] " + t.Title
	if t.Description != "" {
		line += ": " + t.Description
	}
	return line
}
