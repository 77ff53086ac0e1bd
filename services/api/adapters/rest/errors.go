package rest

import (
	"errors"
	"net/http"

	"todo-chatbot-backend/services/api/core"
	"todo-chatbot-backend/services/api/pkg/res"
)

func WriteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidArgs):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrUnauthorized):
		res.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, core.ErrNotFound):
		res.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrAlreadyExists):
		res.Error(w, err.Error(), http.StatusConflict)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
