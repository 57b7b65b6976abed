package middleware

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/media-converter-go/internal/api_context"
	"github.com/fhuszti/media-converter-go/internal/handler/api"
	msuuid "github.com/fhuszti/media-converter-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

func WithTaskID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			parsedID, err := msuuid.Parse(id)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid UUID", id), nil)
				return
			}

			// stash it in context and call the real handler
			next.ServeHTTP(w, r.WithContext(api_context.WithTaskID(r.Context(), parsedID)))
		})
	}
}
