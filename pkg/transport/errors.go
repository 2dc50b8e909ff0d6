package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parlor-dev/parlor/pkg/api"
	"github.com/parlor-dev/parlor/pkg/storage"
)

// WriteError maps an error to an HTTP status and writes the uniform
// {"error": "<message>"} body. Statuses whose errors carry no message
// (401, 403, 404) get no body at all. Storage absence maps to 404;
// anything unrecognized maps to 500 with a fixed generic message, never
// echoing internal detail to the client.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, storage.ErrNotFound):
		apiErr = api.NewNotFoundError()
	default:
		apiErr = api.NewServerError()
	}

	if apiErr.Message == "" {
		w.WriteHeader(apiErr.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr.Message})
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
