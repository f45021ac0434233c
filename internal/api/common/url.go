package common

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetUUIDParam extracts and parses a UUID URL parameter from the request.
func GetUUIDParam(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q is not a UUID", paramName, raw)
	}
	return id, nil
}
