package api

import (
	"net/http"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
)

type SubmitResponse struct {
	TaskID string `json:"task_id"`
}

// ConvertAsyncHandler accepts the uploaded file for background conversion.
func ConvertAsyncHandler(svc port.TaskSubmitter, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, cleanup, ok := readUpload(w, r, maxUpload)
		if !ok {
			return
		}
		defer cleanup()

		id, err := svc.Submit(r.Context(), up.source(), up.req)
		if err != nil {
			WriteConversionError(r.Context(), w, err)
			return
		}

		w.Header().Set("Location", "/tasks/"+id.String())
		RespondJSON(w, http.StatusAccepted, SubmitResponse{TaskID: id.String()})
		logger.Infof(r.Context(), "✅  Accepted conversion task #%s", id)
	}
}
