package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/validation"
)

// parts above this size are spooled to disk by the multipart reader
const multipartMemory = 8 << 20

// ConversionForm holds the non-file fields of a conversion upload.
type ConversionForm struct {
	Kind         string `json:"kind" validate:"omitempty,mediakind"`
	Format       string `json:"format" validate:"required,format_token"`
	ResizeWidth  *int   `json:"resize_width" validate:"omitempty,min=0"`
	ResizeHeight *int   `json:"resize_height" validate:"omitempty,min=0"`
	CropWidth    *int   `json:"crop_width" validate:"omitempty,min=0"`
	CropHeight   *int   `json:"crop_height" validate:"omitempty,min=0"`
}

type upload struct {
	file     multipart.File
	filename string
	req      model.ConversionRequest
}

func (u *upload) source() model.Source {
	return model.FromStream(u.filename, u.file)
}

// readUpload parses a multipart conversion request. On failure the response
// is already written and ok is false. On success the caller must call
// cleanup once the file is no longer needed.
func readUpload(w http.ResponseWriter, r *http.Request, maxUpload int64) (up *upload, cleanup func(), ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxUpload), nil)
			return nil, nil, false
		}
		WriteError(w, http.StatusBadRequest, "invalid multipart form", err)
		return nil, nil, false
	}
	removeForm := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warnf(r.Context(), "⚠️ failed to remove multipart temp files: %v", err)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		removeForm()
		WriteError(w, http.StatusBadRequest, "file is required", nil)
		return nil, nil, false
	}
	cleanup = func() {
		_ = file.Close()
		removeForm()
	}

	form, err := parseForm(r)
	if err != nil {
		cleanup()
		WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, nil, false
	}

	if errs := validation.ValidateStruct(form); errs != nil {
		cleanup()
		errsJSON, err := validation.ErrorsToJson(errs)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
			return nil, nil, false
		}
		RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
		logger.Warnf(r.Context(), "⚠️ Validation failed: %s", errsJSON)
		return nil, nil, false
	}

	req, err := form.toRequest()
	if err != nil {
		cleanup()
		WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, nil, false
	}

	return &upload{file: file, filename: header.Filename, req: req}, cleanup, true
}

func parseForm(r *http.Request) (ConversionForm, error) {
	form := ConversionForm{
		Kind:   strings.TrimSpace(r.FormValue("kind")),
		Format: strings.TrimSpace(r.FormValue("format")),
	}
	fields := []struct {
		name string
		dst  **int
	}{
		{"resize_width", &form.ResizeWidth},
		{"resize_height", &form.ResizeHeight},
		{"crop_width", &form.CropWidth},
		{"crop_height", &form.CropHeight},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(r.FormValue(f.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ConversionForm{}, fmt.Errorf("%s must be an integer", f.name)
		}
		*f.dst = &n
	}
	return form, nil
}

func (f ConversionForm) toRequest() (model.ConversionRequest, error) {
	kind, err := model.ParseMediaKind(f.Kind)
	if err != nil {
		return model.ConversionRequest{}, err
	}
	resize, err := pair("resize", f.ResizeWidth, f.ResizeHeight)
	if err != nil {
		return model.ConversionRequest{}, err
	}
	crop, err := pair("crop", f.CropWidth, f.CropHeight)
	if err != nil {
		return model.ConversionRequest{}, err
	}
	return model.ConversionRequest{Kind: kind, Format: f.Format, Resize: resize, Crop: crop}, nil
}

func pair(name string, w, h *int) (*model.Size, error) {
	switch {
	case w == nil && h == nil:
		return nil, nil
	case w == nil || h == nil:
		return nil, fmt.Errorf("%s_width and %s_height must be given together", name, name)
	default:
		return &model.Size{Width: *w, Height: *h}, nil
	}
}
