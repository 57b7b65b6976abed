package api

import (
	"net/http"

	"github.com/fhuszti/media-converter-go/internal/api_context"
	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
)

func GetTaskHandler(renderer port.HTTPRenderer, svc port.StatusPoller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.TaskIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		raw, etag, err := renderer.RenderTaskStatus(r.Context(), svc, id)
		if err != nil {
			WriteConversionError(r.Context(), w, err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Infof(r.Context(), "✅  Task #%s unchanged", id)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		logger.Infof(r.Context(), "✅  Successfully returned status of task #%s", id)
	}
}
