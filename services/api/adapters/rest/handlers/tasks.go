package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todo-chatbot-backend/services/api/adapters/rest"
	"todo-chatbot-backend/services/api/auth"
	"todo-chatbot-backend/services/api/core"
	"todo-chatbot-backend/services/api/pkg/res"
)

func parseStatus(s string) (core.TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return core.StatusAll, true
	case "pending":
		return core.StatusPending, true
	case "completed":
		return core.StatusCompleted, true
	default:
		return "", false
	}
}

func parseSort(s string) (core.SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created_at":
		return core.SortCreatedAt, true
	case "due_date":
		return core.SortDueDate, true
	case "title":
		return core.SortTitle, true
	default:
		return "", false
	}
}

func NewCreateTaskHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}

		var in rest.CreateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateTask(ctx, userID, in.Title, in.Description, in.DueDate)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusCreated)
	}
}

func NewGetTaskHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetTask(ctx, userID, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewListTasksHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}

		q := r.URL.Query()
		var f core.ListTasksFilter

		status, ok := parseStatus(q.Get("status"))
		if !ok {
			res.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		f.Status = status

		sort, ok := parseSort(q.Get("sort"))
		if !ok {
			res.Error(w, "invalid sort", http.StatusBadRequest)
			return
		}
		f.Sort = sort
		f.Search = strings.TrimSpace(q.Get("search"))

		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				res.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			f.Limit = n
		}
		if v := q.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				res.Error(w, "invalid offset", http.StatusBadRequest)
				return
			}
			f.Offset = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListTasks(ctx, userID, f)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		if items == nil {
			items = []core.Task{}
		}
		res.Json(w, map[string]any{"tasks": items}, http.StatusOK)
	}
}

func NewPatchTaskHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.PatchTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p := core.TaskPatch{
			Title:       in.Title,
			Description: in.Description,
			Completed:   in.Completed,
			DueDate:     in.DueDate,
		}
		if p.Title == nil && p.Description == nil && p.Completed == nil && p.DueDate == nil {
			res.Error(w, "no fields to update", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.PatchTask(ctx, userID, id, p)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewToggleTaskHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.ToggleTask(ctx, userID, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewDeleteTaskHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteTask(ctx, userID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.NoContent(w)
	}
}
