package api

import (
	"encoding/json"
	"net/http"

	"github.com/takeru/enghub/internal/errors"
	"github.com/takeru/enghub/internal/logger"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON decodes the request body into v. Malformed bodies map to a
// BAD_REQUEST AppError.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid request body: " + err.Error())
	}
	return nil
}

func invalidParam(name string) error {
	return errors.NewBadRequestError("invalid query parameter: " + name)
}
