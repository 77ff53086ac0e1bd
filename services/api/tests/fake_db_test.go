package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"todo-chatbot-backend/services/api/core"
)

// fakeDB implements core.DB in memory with the same ownership semantics as
// the Postgres adapter: every task/tag/conversation lookup filters by the
// owner, so a row belonging to someone else behaves exactly like a missing
// row.
type fakeDB struct {
	mu sync.RWMutex

	nextUserID         int64
	nextTaskID         int64
	nextTagID          int64
	nextConversationID int64
	nextMessageID      int64

	users         map[int64]core.User
	tasks         map[int64]core.Task
	tags          map[int64]core.Tag
	taskTags      map[int64]map[int64]struct{} // taskID -> tagIDs
	conversations map[int64]core.Conversation
	messages      map[int64]core.Message
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		nextUserID:         1,
		nextTaskID:         1,
		nextTagID:          1,
		nextConversationID: 1,
		nextMessageID:      1,
		users:              make(map[int64]core.User),
		tasks:              make(map[int64]core.Task),
		tags:               make(map[int64]core.Tag),
		taskTags:           make(map[int64]map[int64]struct{}),
		conversations:      make(map[int64]core.Conversation),
		messages:           make(map[int64]core.Message),
	}
}

func cloneTask(t core.Task) core.Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	return out
}

func (db *fakeDB) Ping(context.Context) error {
	return nil
}

// users

func (db *fakeDB) CreateUser(_ context.Context, email, passwordHash string) (core.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return core.User{}, core.ErrAlreadyExists
		}
	}

	id := db.nextUserID
	db.nextUserID++

	now := time.Now()
	user := core.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.users[id] = user
	return user, nil
}

func (db *fakeDB) GetUser(_ context.Context, id int64) (core.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	user, ok := db.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return user, nil
}

func (db *fakeDB) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

// tasks

func (db *fakeDB) CreateTask(_ context.Context, userID int64, title, description string, dueDate *time.Time) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.nextTaskID
	db.nextTaskID++

	now := time.Now()
	task := core.Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dueDate != nil {
		due := *dueDate
		task.DueDate = &due
	}

	db.tasks[id] = cloneTask(task)
	return cloneTask(task), nil
}

func (db *fakeDB) GetTask(_ context.Context, userID, id int64) (core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	task, ok := db.tasks[id]
	if !ok || task.UserID != userID {
		return core.Task{}, core.ErrNotFound
	}
	return cloneTask(task), nil
}

func (db *fakeDB) ListTasks(_ context.Context, userID int64, f core.ListTasksFilter) ([]core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.Task, 0, len(db.tasks))
	for _, task := range db.tasks {
		if task.UserID != userID {
			continue
		}
		if f.Status == core.StatusPending && task.Completed {
			continue
		}
		if f.Status == core.StatusCompleted && !task.Completed {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(task.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneTask(task))
	}

	switch f.Sort {
	case core.SortTitle:
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case core.SortDueDate:
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	default:
		// creation order, newest first
		sort.Slice(out, func(i, j int) bool {
			return out[i].ID > out[j].ID
		})
	}

	if f.Offset > len(out) {
		return []core.Task{}, nil
	}
	if f.Offset > 0 {
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}

	return out, nil
}

func (db *fakeDB) UpdateTask(_ context.Context, userID int64, t core.Task) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	current, ok := db.tasks[t.ID]
	if !ok || current.UserID != userID {
		return core.Task{}, core.ErrNotFound
	}

	t.UserID = current.UserID
	t.CreatedAt = current.CreatedAt
	t.UpdatedAt = time.Now()

	db.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (db *fakeDB) ToggleTask(_ context.Context, userID, id int64) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	task, ok := db.tasks[id]
	if !ok || task.UserID != userID {
		return core.Task{}, core.ErrNotFound
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now()
	db.tasks[id] = cloneTask(task)
	return cloneTask(task), nil
}

func (db *fakeDB) DeleteTask(_ context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	task, ok := db.tasks[id]
	if !ok || task.UserID != userID {
		return core.ErrNotFound
	}

	delete(db.tasks, id)
	delete(db.taskTags, id)
	return nil
}

// tags

func (db *fakeDB) CreateTag(_ context.Context, userID int64, name string) (core.Tag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, tag := range db.tags {
		if tag.UserID == userID && strings.EqualFold(tag.Name, name) {
			return core.Tag{}, core.ErrAlreadyExists
		}
	}

	id := db.nextTagID
	db.nextTagID++

	tag := core.Tag{ID: id, UserID: userID, Name: name, CreatedAt: time.Now()}
	db.tags[id] = tag
	return tag, nil
}

func (db *fakeDB) ListTags(_ context.Context, userID int64) ([]core.Tag, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.Tag, 0, len(db.tags))
	for _, tag := range db.tags {
		if tag.UserID == userID {
			out = append(out, tag)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (db *fakeDB) DeleteTag(_ context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tag, ok := db.tags[id]
	if !ok || tag.UserID != userID {
		return core.ErrNotFound
	}

	delete(db.tags, id)
	for taskID := range db.taskTags {
		delete(db.taskTags[taskID], id)
	}
	return nil
}

func (db *fakeDB) AttachTag(_ context.Context, userID, taskID, tagID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	task, ok := db.tasks[taskID]
	if !ok || task.UserID != userID {
		return core.ErrNotFound
	}
	tag, ok := db.tags[tagID]
	if !ok || tag.UserID != userID {
		return core.ErrNotFound
	}

	if db.taskTags[taskID] == nil {
		db.taskTags[taskID] = make(map[int64]struct{})
	}
	db.taskTags[taskID][tagID] = struct{}{}
	return nil
}

func (db *fakeDB) DetachTag(_ context.Context, userID, taskID, tagID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	task, ok := db.tasks[taskID]
	if !ok || task.UserID != userID {
		return core.ErrNotFound
	}
	if _, ok := db.taskTags[taskID][tagID]; !ok {
		return core.ErrNotFound
	}

	delete(db.taskTags[taskID], tagID)
	return nil
}

func (db *fakeDB) ListTaskTags(_ context.Context, userID, taskID int64) ([]core.Tag, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	task, ok := db.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, core.ErrNotFound
	}

	out := make([]core.Tag, 0, len(db.taskTags[taskID]))
	for tagID := range db.taskTags[taskID] {
		out = append(out, db.tags[tagID])
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// conversations

func (db *fakeDB) CreateConversation(_ context.Context, userID int64) (core.Conversation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.nextConversationID
	db.nextConversationID++

	now := time.Now()
	conv := core.Conversation{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}
	db.conversations[id] = conv
	return conv, nil
}

func (db *fakeDB) GetConversation(_ context.Context, userID, id int64) (core.Conversation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	conv, ok := db.conversations[id]
	if !ok || conv.UserID != userID {
		return core.Conversation{}, core.ErrNotFound
	}
	return conv, nil
}

func (db *fakeDB) ListConversations(_ context.Context, userID int64) ([]core.Conversation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.Conversation, 0, len(db.conversations))
	for _, conv := range db.conversations {
		if conv.UserID == userID {
			out = append(out, conv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (db *fakeDB) TouchConversation(_ context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	conv, ok := db.conversations[id]
	if !ok || conv.UserID != userID {
		return core.ErrNotFound
	}

	conv.UpdatedAt = time.Now()
	db.conversations[id] = conv
	return nil
}

func (db *fakeDB) AddMessage(_ context.Context, userID, conversationID int64, role, content string) (core.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	conv, ok := db.conversations[conversationID]
	if !ok || conv.UserID != userID {
		return core.Message{}, core.ErrNotFound
	}

	id := db.nextMessageID
	db.nextMessageID++

	msg := core.Message{
		ID:             id,
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	db.messages[id] = msg
	return msg, nil
}

func (db *fakeDB) ListMessages(_ context.Context, userID, conversationID int64, limit int) ([]core.Message, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	conv, ok := db.conversations[conversationID]
	if !ok || conv.UserID != userID {
		return []core.Message{}, nil
	}

	out := make([]core.Message, 0)
	for _, msg := range db.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
