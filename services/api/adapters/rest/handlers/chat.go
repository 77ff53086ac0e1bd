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

func NewChatHandler(log *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}

		var in rest.ChatIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := svc.Chat(ctx, userID, in.ConversationID, in.Message)
		if err != nil {
			log.Error("chat request failed", "user_id", userID, "error", err)
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, result, http.StatusOK)
	}
}

func NewListConversationsHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerID(w, r, verifier)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListConversations(ctx, userID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		if items == nil {
			items = []core.Conversation{}
		}
		res.Json(w, map[string]any{"conversations": items}, http.StatusOK)
	}
}

func NewConversationHistoryHandler(_ *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
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

		messages, err := svc.ConversationHistory(ctx, userID, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		if messages == nil {
			messages = []core.Message{}
		}
		res.Json(w, map[string]any{"conversation_id": id, "messages": messages}, http.StatusOK)
	}
}
