package client

import "context"

// API is the server surface TaskList depends on; *Client implements it.
type API interface {
	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, title, description string) (Task, error)
	PatchTask(ctx context.Context, id int64, p TaskPatch) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ToggleTask(ctx context.Context, id int64) (Task, error)
}

// TaskList combines the API client with an optimistic mirror. Every mutation
// follows the same control flow: stage locally, issue the request, then
// confirm with the canonical server row or roll the mirror back and return
// the error.
type TaskList struct {
	api    API
	mirror *Mirror
}

func NewTaskList(api API) *TaskList {
	return &TaskList{api: api, mirror: NewMirror()}
}

// Tasks returns the current (possibly optimistic) view.
func (l *TaskList) Tasks() []Task {
	return l.mirror.Tasks()
}

// Refresh replaces the mirror with a fresh server fetch. This is the
// authoritative resynchronization path.
func (l *TaskList) Refresh(ctx context.Context) error {
	tasks, err := l.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	l.mirror.Replace(tasks)
	return nil
}

func (l *TaskList) Create(ctx context.Context, title, description string) (Task, error) {
	pd := l.mirror.StageCreate(title, description)
	t, err := l.api.CreateTask(ctx, title, description)
	if err != nil {
		l.mirror.Rollback(pd)
		return Task{}, err
	}
	l.mirror.Confirm(pd, &t)
	return t, nil
}

func (l *TaskList) Update(ctx context.Context, id int64, p TaskPatch) (Task, error) {
	pd := l.mirror.StageUpdate(id, p)
	t, err := l.api.PatchTask(ctx, id, p)
	if err != nil {
		l.mirror.Rollback(pd)
		return Task{}, err
	}
	l.mirror.Confirm(pd, &t)
	return t, nil
}

func (l *TaskList) Toggle(ctx context.Context, id int64) (Task, error) {
	pd := l.mirror.StageToggle(id)
	t, err := l.api.ToggleTask(ctx, id)
	if err != nil {
		l.mirror.Rollback(pd)
		return Task{}, err
	}
	l.mirror.Confirm(pd, &t)
	return t, nil
}

func (l *TaskList) Delete(ctx context.Context, id int64) error {
	pd := l.mirror.StageDelete(id)
	if err := l.api.DeleteTask(ctx, id); err != nil {
		l.mirror.Rollback(pd)
		return err
	}
	l.mirror.Confirm(pd, nil)
	return nil
}
