package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
)

type ErrorResponse struct {
	Error          string   `json:"error"`
	Kind           string   `json:"kind,omitempty"`
	AllowedFormats []string `json:"allowed_formats,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

// WriteConversionError answers with the status matching the kind of err.
// Only the client-facing detail of err is written to the body.
func WriteConversionError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	status := StatusForKind(kind)
	resp := ErrorResponse{Error: model.DetailOf(err), Kind: string(kind)}

	var fe *model.FormatError
	if errors.As(err, &fe) {
		resp.AllowedFormats = fe.Allowed
	}

	if status >= http.StatusInternalServerError {
		logger.Errorf(ctx, "❌  %s: %v", resp.Error, err)
	} else {
		logger.Warnf(ctx, "⚠️ %s: %s", kind, resp.Error)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, resp)
}

func StatusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindDecode, model.KindEncode:
		return http.StatusUnprocessableEntity
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}
