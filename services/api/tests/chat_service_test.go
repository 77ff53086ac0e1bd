package tests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"todo-chatbot-backend/services/api/core"
)

// fakeAgent returns scripted replies in order and records what it was sent.
type fakeAgent struct {
	replies []core.AgentReply
	err     error

	calls     int
	lastTurns []core.AgentMessage
	lastTools []core.ToolSpec
}

func (a *fakeAgent) Complete(_ context.Context, history []core.AgentMessage, tools []core.ToolSpec) (core.AgentReply, error) {
	a.calls++
	a.lastTurns = history
	a.lastTools = tools
	if a.err != nil {
		return core.AgentReply{}, a.err
	}
	if len(a.replies) == 0 {
		return core.AgentReply{Content: "ok"}, nil
	}
	reply := a.replies[0]
	a.replies = a.replies[1:]
	return reply, nil
}

func TestChatPlainReply(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{replies: []core.AgentReply{{Content: "You have no tasks yet."}}}
	svc := core.NewService(newFakeDB(), agent)
	ctx := context.Background()

	res, err := svc.Chat(ctx, 1, nil, "what's on my list?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if res.ConversationID == 0 {
		t.Error("a conversation must be created on first contact")
	}
	if res.Response != "You have no tasks yet." {
		t.Errorf("response = %q", res.Response)
	}

	// both turns persisted, in order
	history, err := svc.ConversationHistory(ctx, 1, res.ConversationID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != core.RoleUser || history[0].Content != "what's on my list?" {
		t.Errorf("first turn = %+v", history[0])
	}
	if history[1].Role != core.RoleAssistant || history[1].Content != "You have no tasks yet." {
		t.Errorf("second turn = %+v", history[1])
	}

	if len(agent.lastTools) != 5 {
		t.Errorf("agent offered %d tools, want 5", len(agent.lastTools))
	}
}

func TestChatContinuesConversation(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{}
	svc := core.NewService(newFakeDB(), agent)
	ctx := context.Background()

	first, err := svc.Chat(ctx, 1, nil, "hello")
	if err != nil {
		t.Fatalf("first chat: %v", err)
	}

	second, err := svc.Chat(ctx, 1, &first.ConversationID, "and again")
	if err != nil {
		t.Fatalf("second chat: %v", err)
	}
	if second.ConversationID != first.ConversationID {
		t.Errorf("conversation changed: %d != %d", second.ConversationID, first.ConversationID)
	}

	// prior turns are in the history handed to the agent
	var sawFirst bool
	for _, turn := range agent.lastTurns {
		if turn.Content == "hello" {
			sawFirst = true
		}
	}
	if !sawFirst {
		t.Error("agent history missing earlier turn")
	}
}

func TestChatToolCallRunsAsCaller(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{replies: []core.AgentReply{{
		ToolCalls: []core.ToolCall{{
			Name: "add_task",
			// the model claims another user; identity comes from the request
			Args: map[string]any{"title": "buy milk", "user_id": float64(99)},
		}},
	}}}
	svc := core.NewService(newFakeDB(), agent)
	ctx := context.Background()

	res, err := svc.Chat(ctx, 1, nil, "add buy milk")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(res.Response, "Added task: buy milk") {
		t.Errorf("response = %q", res.Response)
	}

	mine, err := svc.ListTasks(ctx, 1, core.ListTasksFilter{})
	if err != nil {
		t.Fatalf("list caller tasks: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "buy milk" {
		t.Errorf("caller tasks = %+v", mine)
	}

	theirs, err := svc.ListTasks(ctx, 99, core.ListTasksFilter{})
	if err != nil {
		t.Fatalf("list spoofed tasks: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("task created under model-supplied user: %+v", theirs)
	}
}

func TestChatToolCallByTitle(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{replies: []core.AgentReply{{
		ToolCalls: []core.ToolCall{{
			Name: "delete_task",
			Args: map[string]any{"title": "Buy Milk"},
		}},
	}}}
	svc := core.NewService(newFakeDB(), agent)
	ctx := context.Background()

	task := mustCreateTask(t, svc, 1, "buy milk")

	res, err := svc.Chat(ctx, 1, nil, "delete buy milk")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(res.Response, fmt.Sprintf("Deleted task ID: %d", task.ID)) {
		t.Errorf("response = %q", res.Response)
	}
	if _, err := svc.GetTask(ctx, 1, task.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("task not deleted: %v", err)
	}
}

func TestChatNotOwnedConversation(t *testing.T) {
	t.Parallel()
	svc := core.NewService(newFakeDB(), &fakeAgent{})
	ctx := context.Background()

	res, err := svc.Chat(ctx, 1, nil, "mine")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	if _, err := svc.Chat(ctx, 2, &res.ConversationID, "not mine"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user chat: got %v, want ErrNotFound", err)
	}
	if _, err := svc.ConversationHistory(ctx, 2, res.ConversationID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user history: got %v, want ErrNotFound", err)
	}
}

func TestChatAgentFailureDegrades(t *testing.T) {
	t.Parallel()
	agent := &fakeAgent{err: errors.New("provider down")}
	svc := core.NewService(newFakeDB(), agent)
	ctx := context.Background()

	res, err := svc.Chat(ctx, 1, nil, "anyone there?")
	if err != nil {
		t.Fatalf("chat must not fail on agent error: %v", err)
	}
	if !strings.Contains(res.Response, "Sorry, I encountered an error") {
		t.Errorf("response = %q, want degraded apology", res.Response)
	}

	// both turns are still on record
	history, err := svc.ConversationHistory(ctx, 1, res.ConversationID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[1].Role != core.RoleAssistant {
		t.Errorf("history = %+v", history)
	}
}

func TestChatValidation(t *testing.T) {
	t.Parallel()
	svc := core.NewService(newFakeDB(), &fakeAgent{})
	ctx := context.Background()

	if _, err := svc.Chat(ctx, 1, nil, "   "); !errors.Is(err, core.ErrInvalidArgs) {
		t.Errorf("blank message: got %v, want ErrInvalidArgs", err)
	}

	// no agent wired at all
	bare := core.NewService(newFakeDB(), nil)
	if _, err := bare.Chat(ctx, 1, nil, "hello"); err == nil {
		t.Error("chat without an agent must fail")
	}
}

func TestListConversations(t *testing.T) {
	t.Parallel()
	svc := core.NewService(newFakeDB(), &fakeAgent{})
	ctx := context.Background()

	first, err := svc.Chat(ctx, 1, nil, "one")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if _, err := svc.Chat(ctx, 2, nil, "two"); err != nil {
		t.Fatalf("chat as other user: %v", err)
	}

	convs, err := svc.ListConversations(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 || convs[0].ID != first.ConversationID {
		t.Errorf("conversations leaked across users: %+v", convs)
	}
}
