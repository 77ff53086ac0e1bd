// Package agent implements the core.Agent port against an OpenAI-compatible
// chat-completions endpoint.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"todo-chatbot-backend/services/api/core"
)

type Client struct {
	log     *slog.Logger
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(log *slog.Logger, baseURL, apiKey, model string) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

const systemPrompt = "You are a helpful todo assistant. Use the provided tools to manage the user's tasks when asked; otherwise answer conversationally."

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Complete(ctx context.Context, history []core.AgentMessage, tools []core.ToolSpec) (core.AgentReply, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: make([]chatMessage, 0, len(history)+1),
	}
	req.Messages = append(req.Messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, chatTool{
			Type:     "function",
			Function: chatFunction{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return core.AgentReply{}, err
	}
	if resp.Error != nil {
		return core.AgentReply{}, fmt.Errorf("agent error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return core.AgentReply{}, fmt.Errorf("agent returned no choices")
	}

	msg := resp.Choices[0].Message
	reply := core.AgentReply{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				c.log.Warn("unparseable tool arguments", "tool", tc.Function.Name, "error", err)
				continue
			}
		}
		reply.ToolCalls = append(reply.ToolCalls, core.ToolCall{Name: tc.Function.Name, Args: args})
	}
	return reply, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, dest)
}
