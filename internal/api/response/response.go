package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/subnets/internal/core"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteServiceError maps a core error to an HTTP status. Validation errors
// and unknown IDs are reported to the client; anything else is logged and
// answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		WriteError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, core.ErrNotFound.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// validationMessage drops operation context added while the error travelled
// up, leaving the message that starts with "validation failed".
func validationMessage(err error) string {
	prefix := core.ErrValidation.Error()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if strings.HasPrefix(e.Error(), prefix) {
			return e.Error()
		}
	}
	return err.Error()
}
