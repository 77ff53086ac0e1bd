package client

import (
	"reflect"
	"testing"
	"time"
)

func seedTasks() []Task {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return []Task{
		{ID: 2, Title: "walk the dog", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: 1, Title: "buy milk", Description: "2%", CreatedAt: base, UpdatedAt: base},
	}
}

func TestReplaceInstallsSnapshot(t *testing.T) {
	t.Parallel()
	m := NewMirror()
	seed := seedTasks()
	m.Replace(seed)

	got := m.Tasks()
	if !reflect.DeepEqual(got, seed) {
		t.Errorf("tasks = %+v, want %+v", got, seed)
	}

	// the returned slice is a copy, mutating it does not touch the mirror
	got[0].Title = "mutated"
	if m.Tasks()[0].Title == "mutated" {
		t.Error("Tasks() exposed internal state")
	}
}

func TestStageCreatePrependsPendingRow(t *testing.T) {
	t.Parallel()
	m := NewMirror()
	m.Replace(seedTasks())

	m.StageCreate("new thing", "details")

	got := m.Tasks()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "new thing" || !got[0].Pending() {
		t.Errorf("staged row = %+v, want pending at head", got[0])
	}
	if got[0].ID != 0 {
		t.Errorf("staged row has a server id: %d", got[0].ID)
	}
}

func TestConfirmCreateSwapsCanonicalRow(t *testing.T) {
	t.Parallel()
	m := NewMirror()
	m.Replace(seedTasks())

	pd := m.StageCreate("new thing", "")
	canonical := Task{ID: 3, Title: "new thing", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.Confirm(pd, &canonical)

	got := m.Tasks()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != 3 || got[0].Pending() {
		t.Errorf("head after confirm = %+v, want canonical row", got[0])
	}
}

func TestRollbackRestoresExactState(t *testing.T) {
	t.Parallel()
	seed := seedTasks()

	stages := []struct {
		name  string
		stage func(m *Mirror) Pending
	}{
		{"create", func(m *Mirror) Pending { return m.StageCreate("junk", "") }},
		{"update", func(m *Mirror) Pending {
			title := "changed"
			return m.StageUpdate(1, TaskPatch{Title: &title})
		}},
		{"toggle", func(m *Mirror) Pending { return m.StageToggle(1) }},
		{"delete", func(m *Mirror) Pending { return m.StageDelete(1) }},
	}
	for _, tc := range stages {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMirror()
			m.Replace(seed)
			before := m.Tasks()

			pd := tc.stage(m)
			m.Rollback(pd)

			after := m.Tasks()
			if !reflect.DeepEqual(after, before) {
				t.Errorf("after rollback = %+v, want %+v", after, before)
			}
			for _, task := range after {
				if task.Pending() {
					t.Errorf("residual pending row: %+v", task)
				}
			}
		})
	}
}

func TestStageUpdateAppliesSparsePatch(t *testing.T) {
	t.Parallel()
	m := NewMirror()
	m.Replace(seedTasks())

	done := true
	m.StageUpdate(1, TaskPatch{Completed: &done})

	for _, task := range m.Tasks() {
		if task.ID == 1 {
			if !task.Completed {
				t.Error("completed not staged")
			}
			if task.Title != "buy milk" || task.Description != "2%" {
				t.Errorf("untouched fields changed: %+v", task)
			}
		}
	}
}

func TestStageToggleAndConfirm(t *testing.T) {
	t.Parallel()
	m := NewMirror()
	m.Replace(seedTasks())

	pd := m.StageToggle(2)
	canonical := Task{ID: 2, Title: "walk the dog", Completed: true}
	m.Confirm(pd, &canonical)

	for _, task := range m.Tasks() {
		if task.ID == 2 && !task.Completed {
			t.Errorf("task 2 = %+v, want completed", task)
		}
	}
}

func TestStageDeleteRemovesRow(t *testing.T) {
	t.Parallel()
	m := NewMirror()
	m.Replace(seedTasks())

	pd := m.StageDelete(1)

	got := m.Tasks()
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("after staged delete = %+v", got)
	}

	// delete confirmations carry no canonical row
	m.Confirm(pd, nil)
	if len(m.Tasks()) != 1 {
		t.Errorf("after confirm = %+v", m.Tasks())
	}
}

func TestRollbackPreservesDueDateCopy(t *testing.T) {
	t.Parallel()
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seed := []Task{{ID: 1, Title: "dated", DueDate: &due}}

	m := NewMirror()
	m.Replace(seed)

	pd := m.StageDelete(1)
	due = due.Add(24 * time.Hour) // mutate the caller's pointer target
	m.Rollback(pd)

	got := m.Tasks()
	if len(got) != 1 || got[0].DueDate == nil {
		t.Fatalf("after rollback = %+v", got)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got[0].DueDate.Equal(want) {
		t.Errorf("due date = %v, want %v (snapshot must be deep)", got[0].DueDate, want)
	}
}
