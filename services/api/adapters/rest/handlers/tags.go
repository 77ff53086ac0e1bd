package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"todo-chatbot-backend/services/api/adapters/rest"
	"todo-chatbot-backend/services/api/auth"
	"todo-chatbot-backend/services/api/core"
	"todo-chatbot-backend/services/api/pkg/res"
)

func NewCreateTagHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}

		var in rest.CreateTagIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tag, err := svc.CreateTag(ctx, userID, in.Name)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, tag, http.StatusCreated)
	}
}

func NewListTagsHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tags, err := svc.ListTags(ctx, userID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		if tags == nil {
			tags = []core.Tag{}
		}
		res.Json(w, map[string]any{"tags": tags}, http.StatusOK)
	}
}

func NewDeleteTagHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
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

		if err := svc.DeleteTag(ctx, userID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.NoContent(w)
	}
}

func NewListTaskTagsHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
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

		tags, err := svc.ListTaskTags(ctx, userID, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		if tags == nil {
			tags = []core.Tag{}
		}
		res.Json(w, map[string]any{"tags": tags}, http.StatusOK)
	}
}

func NewAttachTagHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}
		taskID, ok := pathID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		tagID, ok := pathID(r, "tag")
		if !ok {
			res.Error(w, "invalid tag id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.AttachTag(ctx, userID, taskID, tagID); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.NoContent(w)
	}
}

func NewDetachTagHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}
		taskID, ok := pathID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		tagID, ok := pathID(r, "tag")
		if !ok {
			res.Error(w, "invalid tag id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DetachTag(ctx, userID, taskID, tagID); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.NoContent(w)
	}
}
