package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"todo-chatbot-backend/services/api/auth"
	"todo-chatbot-backend/services/api/core"
	"todo-chatbot-backend/services/api/pkg/res"
)

func Register(mux *http.ServeMux, log *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) {
	// ping
	mux.Handle("GET /api/ping", NewPingHandler(log, svc, timeout))

	// auth
	mux.Handle("POST /auth/register", NewRegisterHandler(log, svc, timeout))
	mux.Handle("POST /auth/login", NewLoginHandler(log, svc, verifier, timeout))

	// tasks
	mux.Handle("GET /api/{user}/tasks", NewListTasksHandler(log, svc, verifier, timeout))
	mux.Handle("POST /api/{user}/tasks", NewCreateTaskHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/{user}/tasks/{id}", NewGetTaskHandler(log, svc, verifier, timeout))
	mux.Handle("PATCH /api/{user}/tasks/{id}", NewPatchTaskHandler(log, svc, verifier, timeout))
	mux.Handle("DELETE /api/{user}/tasks/{id}", NewDeleteTaskHandler(log, svc, verifier, timeout))
	mux.Handle("PATCH /api/{user}/tasks/{id}/complete", NewToggleTaskHandler(log, svc, verifier, timeout))

	// tags
	mux.Handle("POST /api/{user}/tags", NewCreateTagHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/{user}/tags", NewListTagsHandler(log, svc, verifier, timeout))
	mux.Handle("DELETE /api/{user}/tags/{id}", NewDeleteTagHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/{user}/tasks/{id}/tags", NewListTaskTagsHandler(log, svc, verifier, timeout))
	mux.Handle("PUT /api/{user}/tasks/{id}/tags/{tag}", NewAttachTagHandler(log, svc, verifier, timeout))
	mux.Handle("DELETE /api/{user}/tasks/{id}/tags/{tag}", NewDetachTagHandler(log, svc, verifier, timeout))

	// chat
	mux.Handle("POST /api/{user}/chat", NewChatHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/{user}/conversations", NewListConversationsHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/{user}/conversations/{id}/history", NewConversationHistoryHandler(log, svc, verifier, timeout))
}

// ownerID authenticates the request and, when the route carries a {user}
// segment, checks it against the token identity. The token is the only
// source of the acting identity; the path segment is validated, never
// substituted. Writes the rejection itself and reports ok=false.
func ownerID(w http.ResponseWriter, r *http.Request, verifier *auth.Verifier) (int64, bool) {
	userID, err := verifier.FromHeader(r.Header.Get("Authorization"))
	if err != nil {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return 0, false
	}

	if seg := r.PathValue("user"); seg != "" {
		pathID, err := strconv.ParseInt(seg, 10, 64)
		if err != nil || pathID != userID {
			res.Error(w, "access denied", http.StatusForbidden)
			return 0, false
		}
	}

	return userID, true
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}
