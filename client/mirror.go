package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mirror is the client-local copy of one user's task list, ordered newest
// first like the server's default listing. It is not authoritative: every
// mutation is staged here before the network round-trip, then confirmed with
// the server's canonical row or rolled back to the pre-action snapshot.
//
// Single writer: one Mirror belongs to one user session. Overlapping staged
// actions are not merged; each Pending carries its own snapshot and
// Replace (a full refetch) is the recovery path.
type Mirror struct {
	mu    sync.RWMutex
	tasks []Task
}

// Pending is the handle for one in-flight optimistic action. It holds the
// exact collection captured before the action for rollback, and the
// temporary id when the action synthesized a new row.
type Pending struct {
	prev   []Task
	tempID string
	taskID int64
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Tasks returns a copy of the current mirror contents.
func (m *Mirror) Tasks() []Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTasks(m.tasks)
}

// Replace installs a fresh authoritative snapshot, discarding everything
// local. Used on session start and as the resynchronization path.
func (m *Mirror) Replace(tasks []Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = cloneTasks(tasks)
}

// StageCreate prepends a synthesized row with a temporary id and returns the
// handle used to confirm or roll back once the server responds.
func (m *Mirror) StageCreate(title, description string) Pending {
	m.mu.Lock()
	defer m.mu.Unlock()

	pd := Pending{prev: cloneTasks(m.tasks), tempID: uuid.NewString()}
	now := time.Now()
	row := Task{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		tempID:      pd.tempID,
	}
	m.tasks = append([]Task{row}, m.tasks...)
	return pd
}

// StageUpdate applies a sparse patch in place.
func (m *Mirror) StageUpdate(id int64, p TaskPatch) Pending {
	m.mu.Lock()
	defer m.mu.Unlock()

	pd := Pending{prev: cloneTasks(m.tasks), taskID: id}
	for i := range m.tasks {
		if m.tasks[i].ID != id {
			continue
		}
		if p.Title != nil {
			m.tasks[i].Title = *p.Title
		}
		if p.Description != nil {
			m.tasks[i].Description = *p.Description
		}
		if p.Completed != nil {
			m.tasks[i].Completed = *p.Completed
		}
		if p.DueDate != nil {
			due := *p.DueDate
			m.tasks[i].DueDate = &due
		}
		m.tasks[i].UpdatedAt = time.Now()
		break
	}
	return pd
}

// StageToggle flips the completion flag in place.
func (m *Mirror) StageToggle(id int64) Pending {
	m.mu.Lock()
	defer m.mu.Unlock()

	pd := Pending{prev: cloneTasks(m.tasks), taskID: id}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = !m.tasks[i].Completed
			m.tasks[i].UpdatedAt = time.Now()
			break
		}
	}
	return pd
}

// StageDelete removes the row.
func (m *Mirror) StageDelete(id int64) Pending {
	m.mu.Lock()
	defer m.mu.Unlock()

	pd := Pending{prev: cloneTasks(m.tasks), taskID: id}
	out := m.tasks[:0:0]
	for _, t := range m.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	m.tasks = out
	return pd
}

// Confirm reconciles a staged action with the server's canonical row: the
// temporary row (by temp id) or the staged row (by task id) is replaced
// wholesale. Pass nil for delete confirmations, which need no reconciliation.
func (m *Mirror) Confirm(pd Pending, canonical *Task) {
	if canonical == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tasks {
		if pd.tempID != "" && m.tasks[i].tempID == pd.tempID {
			m.tasks[i] = *canonical
			return
		}
		if pd.tempID == "" && m.tasks[i].ID == pd.taskID {
			m.tasks[i] = *canonical
			return
		}
	}
}

// Rollback restores the exact collection captured when the action was
// staged.
func (m *Mirror) Rollback(pd Pending) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = cloneTasks(pd.prev)
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].DueDate != nil {
			due := *out[i].DueDate
			out[i].DueDate = &due
		}
	}
	return out
}
