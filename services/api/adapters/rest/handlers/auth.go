package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"todo-chatbot-backend/services/api/adapters/rest"
	"todo-chatbot-backend/services/api/auth"
	"todo-chatbot-backend/services/api/core"
	"todo-chatbot-backend/services/api/pkg/res"
)

func NewRegisterHandler(log *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.RegisterIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		u, err := svc.RegisterUser(ctx, in.Email, in.Password)
		if err != nil {
			if errors.Is(err, core.ErrInvalidArgs) {
				res.Error(w, "email must be valid and password at least 6 characters", http.StatusBadRequest)
				return
			}
			rest.WriteErr(w, err)
			return
		}

		log.Info("user registered", "user_id", u.ID)
		res.Json(w, u, http.StatusCreated)
	}
}

func NewLoginHandler(log *slog.Logger, svc *core.Service, verifier *auth.Verifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.LoginIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		u, err := svc.AuthenticateUser(ctx, in.Email, in.Password)
		if err != nil {
			// single signal for every credential failure
			res.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := verifier.Issue(u.ID)
		if err != nil {
			log.Error("issuing token", "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		res.Json(w, rest.TokenOut{AccessToken: token, TokenType: "bearer", UserID: u.ID}, http.StatusOK)
	}
}
