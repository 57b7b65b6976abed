package api

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
)

// ConvertHandler converts the uploaded file synchronously and answers with
// the converted bytes.
func ConvertHandler(svc port.InlineConverter, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, cleanup, ok := readUpload(w, r, maxUpload)
		if !ok {
			return
		}
		defer cleanup()

		art, err := svc.ConvertInline(r.Context(), up.source(), up.req)
		if err != nil {
			WriteConversionError(r.Context(), w, err)
			return
		}

		w.Header().Set("Content-Type", art.Format.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.FileName()}))
		w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
		w.Header().Set("X-Media-Width", strconv.Itoa(art.Width))
		w.Header().Set("X-Media-Height", strconv.Itoa(art.Height))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(art.Data); err != nil {
			logger.Errorf(r.Context(), "❌  Failed to write artifact %q: %v", art.FileName(), err)
			return
		}
		logger.Infof(r.Context(), "✅  Successfully converted %q", art.FileName())
	}
}
