package core

import (
	"context"
	"strings"
	"time"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

type Service struct {
	db    DB
	agent Agent
}

// NewService creates the user-scoped task service. agent may be nil for
// deployments that do not expose the chat relay (e.g. the MCP server).
func NewService(db DB, agent Agent) *Service {
	return &Service{db: db, agent: agent}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func validTitle(title string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLen {
		return "", false
	}
	return title, true
}

func validStatus(st TaskStatus) bool {
	switch st {
	case "", StatusAll, StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

func validSort(k SortKey) bool {
	switch k {
	case "", SortCreatedAt, SortDueDate, SortTitle:
		return true
	default:
		return false
	}
}

// Tasks

// TaskPatch is a sparse update: only non-nil fields are applied.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	ClearDue    bool
}

func (p TaskPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.DueDate == nil && !p.ClearDue
}

func (s *Service) CreateTask(ctx context.Context, userID int64, title, description string, dueDate *time.Time) (Task, error) {
	if userID <= 0 {
		return Task{}, ErrInvalidArgs
	}
	title, ok := validTitle(title)
	if !ok {
		return Task{}, ErrInvalidArgs
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLen {
		return Task{}, ErrInvalidArgs
	}
	return s.db.CreateTask(ctx, userID, title, description, dueDate)
}

func (s *Service) GetTask(ctx context.Context, userID, id int64) (Task, error) {
	if userID <= 0 || id <= 0 {
		return Task{}, ErrInvalidArgs
	}
	return s.db.GetTask(ctx, userID, id)
}

func (s *Service) ListTasks(ctx context.Context, userID int64, f ListTasksFilter) ([]Task, error) {
	if userID <= 0 || f.Limit < 0 || f.Offset < 0 {
		return nil, ErrInvalidArgs
	}
	if !validStatus(f.Status) || !validSort(f.Sort) {
		return nil, ErrInvalidArgs
	}
	return s.db.ListTasks(ctx, userID, f)
}

func (s *Service) PatchTask(ctx context.Context, userID, id int64, p TaskPatch) (Task, error) {
	if userID <= 0 || id <= 0 || p.empty() {
		return Task{}, ErrInvalidArgs
	}

	cur, err := s.db.GetTask(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}

	if p.Title != nil {
		title, ok := validTitle(*p.Title)
		if !ok {
			return Task{}, ErrInvalidArgs
		}
		cur.Title = title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		if len(description) > maxDescriptionLen {
			return Task{}, ErrInvalidArgs
		}
		cur.Description = description
	}
	if p.Completed != nil {
		cur.Completed = *p.Completed
	}
	if p.DueDate != nil {
		due := *p.DueDate
		cur.DueDate = &due
	} else if p.ClearDue {
		cur.DueDate = nil
	}

	return s.db.UpdateTask(ctx, userID, cur)
}

func (s *Service) ToggleTask(ctx context.Context, userID, id int64) (Task, error) {
	if userID <= 0 || id <= 0 {
		return Task{}, ErrInvalidArgs
	}
	return s.db.ToggleTask(ctx, userID, id)
}

func (s *Service) DeleteTask(ctx context.Context, userID, id int64) error {
	if userID <= 0 || id <= 0 {
		return ErrInvalidArgs
	}
	return s.db.DeleteTask(ctx, userID, id)
}

// Tags

func (s *Service) CreateTag(ctx context.Context, userID int64, name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if userID <= 0 || name == "" || len(name) > maxTitleLen {
		return Tag{}, ErrInvalidArgs
	}
	return s.db.CreateTag(ctx, userID, name)
}

func (s *Service) ListTags(ctx context.Context, userID int64) ([]Tag, error) {
	if userID <= 0 {
		return nil, ErrInvalidArgs
	}
	return s.db.ListTags(ctx, userID)
}

// DeleteTag removes the tag and its task associations.
func (s *Service) DeleteTag(ctx context.Context, userID, id int64) error {
	if userID <= 0 || id <= 0 {
		return ErrInvalidArgs
	}
	return s.db.DeleteTag(ctx, userID, id)
}

func (s *Service) AttachTag(ctx context.Context, userID, taskID, tagID int64) error {
	if userID <= 0 || taskID <= 0 || tagID <= 0 {
		return ErrInvalidArgs
	}
	return s.db.AttachTag(ctx, userID, taskID, tagID)
}

func (s *Service) DetachTag(ctx context.Context, userID, taskID, tagID int64) error {
	if userID <= 0 || taskID <= 0 || tagID <= 0 {
		return ErrInvalidArgs
	}
	return s.db.DetachTag(ctx, userID, taskID, tagID)
}

func (s *Service) ListTaskTags(ctx context.Context, userID, taskID int64) ([]Tag, error) {
	if userID <= 0 || taskID <= 0 {
		return nil, ErrInvalidArgs
	}
	// 404 for a task the caller does not own, before reading associations.
	if _, err := s.db.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.db.ListTaskTags(ctx, userID, taskID)
}
