package api

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/fhuszti/media-converter-go/internal/api_context"
	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
)

// GetArtifactHandler streams the converted file of a completed task.
func GetArtifactHandler(svc port.ArtifactFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.TaskIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		rc, info, err := svc.OpenArtifact(r.Context(), id)
		if err != nil {
			WriteConversionError(r.Context(), w, err)
			return
		}
		defer func() { _ = rc.Close() }()

		fileName := info.Name + info.Format.Extension()
		w.Header().Set("Content-Type", info.Format.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
		if info.SizeBytes > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(info.SizeBytes, 10))
		}
		w.Header().Set("Cache-Control", "private, max-age=3600, immutable")
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, rc); err != nil {
			logger.Errorf(r.Context(), "❌  Failed to stream artifact of task #%s: %v", id, err)
			return
		}
		logger.Infof(r.Context(), "✅  Successfully streamed artifact of task #%s", id)
	}
}
